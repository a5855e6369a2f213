package store

import "github.com/staffmcp/staffmcp/internal/models"

// SeedDepartments is the reference department set.
var SeedDepartments = []models.Department{
	{ID: 1, Name: "Engineering", CostCenter: "ENG-001"},
	{ID: 2, Name: "Finance", CostCenter: "FIN-002"},
	{ID: 3, Name: "Human Resources", CostCenter: "HR-003"},
}

func mgr(id string) *string { return &id }

// SeedEmployees is the reference employee set, in insertion order.
var SeedEmployees = []models.Employee{
	{ID: 1, EmployeeID: "EMP-1001", FirstName: "Amit", LastName: "Sharma", Email: "amit.sharma@company.com", JobTitle: "Senior Engineer", DepartmentID: 1, HireDate: "2020-06-15", EmploymentType: "Full-time", Status: "Active", BaseSalary: 2200000, Location: "Bangalore"},
	{ID: 2, EmployeeID: "EMP-1002", FirstName: "Neha", LastName: "Verma", Email: "neha.verma@company.com", JobTitle: "Engineering Manager", DepartmentID: 1, HireDate: "2018-03-10", EmploymentType: "Full-time", Status: "Active", BaseSalary: 3000000, Location: "Bangalore"},
	{ID: 3, EmployeeID: "EMP-1003", FirstName: "Rahul", LastName: "Mehta", Email: "rahul.mehta@company.com", JobTitle: "Backend Engineer", DepartmentID: 1, ManagerEmployeeID: mgr("EMP-1002"), HireDate: "2022-01-20", EmploymentType: "Full-time", Status: "Active", BaseSalary: 1800000, Location: "Bangalore"},

	{ID: 4, EmployeeID: "EMP-1004", FirstName: "Priya", LastName: "Singh", Email: "priya.singh@company.com", JobTitle: "Finance Manager", DepartmentID: 2, HireDate: "2019-09-01", EmploymentType: "Full-time", Status: "Active", BaseSalary: 2800000, Location: "Delhi"},
	{ID: 5, EmployeeID: "EMP-1005", FirstName: "Arjun", LastName: "Kapoor", Email: "arjun.kapoor@company.com", JobTitle: "Financial Analyst", DepartmentID: 2, ManagerEmployeeID: mgr("EMP-1004"), HireDate: "2021-11-05", EmploymentType: "Full-time", Status: "Active", BaseSalary: 1600000, Location: "Delhi"},
	{ID: 6, EmployeeID: "EMP-1006", FirstName: "Kavya", LastName: "Nair", Email: "kavya.nair@company.com", JobTitle: "Accounts Executive", DepartmentID: 2, ManagerEmployeeID: mgr("EMP-1004"), HireDate: "2023-02-18", EmploymentType: "Full-time", Status: "Active", BaseSalary: 1200000, Location: "Delhi"},

	{ID: 7, EmployeeID: "EMP-1007", FirstName: "James", LastName: "Brown", Email: "james.brown@company.com", JobTitle: "HR Lead", DepartmentID: 3, HireDate: "2017-05-12", EmploymentType: "Full-time", Status: "Active", BaseSalary: 2500000, Location: "London"},
	{ID: 8, EmployeeID: "EMP-1008", FirstName: "Emily", LastName: "Clark", Email: "emily.clark@company.com", JobTitle: "HR Business Partner", DepartmentID: 3, ManagerEmployeeID: mgr("EMP-1007"), HireDate: "2020-08-25", EmploymentType: "Full-time", Status: "On Leave", BaseSalary: 1900000, Location: "London"},
	{ID: 9, EmployeeID: "EMP-1009", FirstName: "Oliver", LastName: "Wilson", Email: "oliver.wilson@company.com", JobTitle: "Recruiter", DepartmentID: 3, ManagerEmployeeID: mgr("EMP-1007"), HireDate: "2022-06-30", EmploymentType: "Contractor", Status: "Active", BaseSalary: 1400000, Location: "London"},

	{ID: 10, EmployeeID: "EMP-1010", FirstName: "Daniel", LastName: "Miller", Email: "daniel.miller@company.com", JobTitle: "Site Reliability Engineer", DepartmentID: 1, ManagerEmployeeID: mgr("EMP-1002"), HireDate: "2021-10-14", EmploymentType: "Full-time", Status: "Active", BaseSalary: 2600000, Location: "London"},
}
