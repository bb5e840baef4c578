// Package services holds the business logic. Each service is an interface
// with an unexported implementation that depends only on repository
// interfaces.
package services

// Services groups the service instances handed to the controllers
type Services struct {
	Auth   AuthService
	Leave  LeaveService
	Admin  AdminService
	Campus CampusService
	Report ReportService
}
