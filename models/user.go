package models

type UserId string

type User struct {
	UserId       UserId
	Role         Role
	FullName     string
	Email        string
	SupervisorId *UserId
}
