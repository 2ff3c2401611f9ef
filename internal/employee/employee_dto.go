package employee

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	EmployeeNumber   string `json:"employee_number"`
	Phone            string `json:"phone"`
	HireDate         string `json:"hire_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"required,oneof=active inactive terminated"`
	BaseSalary       string `json:"base_salary" binding:"required"`
	Dependents       int    `json:"dependents" binding:"min=0"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	EmployeeNumber   string `json:"employee_number"`
	Phone            string `json:"phone"`
	HireDate         string `json:"hire_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"required,oneof=active inactive terminated"`
	BaseSalary       string `json:"base_salary" binding:"required"`
	Dependents       int    `json:"dependents" binding:"min=0"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	EmployeeNumber   string `json:"employee_number"`
	Phone            string `json:"phone,omitempty"`
	HireDate         string `json:"hire_date"`
	EmploymentStatus string `json:"employment_status"`
	BaseSalary       string `json:"base_salary"`
	Dependents       int    `json:"dependents"`
	CompanyID        string `json:"company_id"`
}
