package repositories

import (
	"github.com/yigit/courseregistry/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository  *CourseRepository
	StudentRepository *StudentRepository
	AdminRepository   *AdminRepository
	TxManager         *PostgresTxManager
}

// NewRepositories initializes all repositories on the shared pool
func NewRepositories(pg *db.PostgresDB) *Repositories {
	return &Repositories{
		CourseRepository:  NewCourseRepository(pg.Pool),
		StudentRepository: NewStudentRepository(pg.Pool),
		AdminRepository:   NewAdminRepository(pg.Pool),
		TxManager:         NewPostgresTxManager(pg),
	}
}
