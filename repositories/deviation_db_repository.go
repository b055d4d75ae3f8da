package repositories

// DeviationDbRepository groups the repository methods over the application
// database. It is stateless, all methods take an explicit Executor.
type DeviationDbRepository struct{}

func NewDeviationDbRepository() DeviationDbRepository {
	return DeviationDbRepository{}
}
