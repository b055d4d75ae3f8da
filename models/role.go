package models

import "slices"

type Role int

const (
	NO_ROLE Role = iota
	QA_INVESTIGATOR
	QA_MANAGER
	DEPARTMENT_MANAGER
	PRODUCTION_SUPERVISOR
	CAPA_OWNER
	QUALITY_DIRECTOR
	SYSTEM
)

func (r Role) String() string {
	switch r {
	case QA_INVESTIGATOR:
		return "QA_INVESTIGATOR"
	case QA_MANAGER:
		return "QA_MANAGER"
	case DEPARTMENT_MANAGER:
		return "DEPARTMENT_MANAGER"
	case PRODUCTION_SUPERVISOR:
		return "PRODUCTION_SUPERVISOR"
	case CAPA_OWNER:
		return "CAPA_OWNER"
	case QUALITY_DIRECTOR:
		return "QUALITY_DIRECTOR"
	case SYSTEM:
		return "SYSTEM"
	default:
		return "NO_ROLE"
	}
}

func RoleFromString(s string) Role {
	switch s {
	case "QA_INVESTIGATOR":
		return QA_INVESTIGATOR
	case "QA_MANAGER":
		return QA_MANAGER
	case "DEPARTMENT_MANAGER":
		return DEPARTMENT_MANAGER
	case "PRODUCTION_SUPERVISOR":
		return PRODUCTION_SUPERVISOR
	case "CAPA_OWNER":
		return CAPA_OWNER
	case "QUALITY_DIRECTOR":
		return QUALITY_DIRECTOR
	case "SYSTEM":
		return SYSTEM
	default:
		return NO_ROLE
	}
}

// ValidRoles are the roles a directory entry may carry. NO_ROLE is excluded:
// it only exists as the zero value for unparseable input.
var ValidRoles = []Role{
	QA_INVESTIGATOR,
	QA_MANAGER,
	DEPARTMENT_MANAGER,
	PRODUCTION_SUPERVISOR,
	CAPA_OWNER,
	QUALITY_DIRECTOR,
	SYSTEM,
}

func (r Role) IsValid() bool {
	return slices.Contains(ValidRoles, r)
}
