package repositories

import (
	"github.com/campusleave/leavedesk/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	LeaveRepository       *LeaveRepository
	CampusRepository      *CampusRepository
	ActivityLogRepository *ActivityLogRepository
	ReportRepository      *ReportRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(database.Pool),
		LeaveRepository:       NewLeaveRepository(database.Pool),
		CampusRepository:      NewCampusRepository(database.Pool),
		ActivityLogRepository: NewActivityLogRepository(database.Pool),
		ReportRepository:      NewReportRepository(database.SQLX),
	}
}
