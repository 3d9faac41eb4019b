package model

type RegisterCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type RegisterCustomerResponse struct {
	Customer Customer `json:"customer"`
}

type GetCustomerRequest struct {
	ID string `json:"id" form:"id"`
}

type GetCustomerResponse struct {
	Customer Customer `json:"customer"`
}

type GetListCustomerRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetListCustomerResponse struct {
	Customers []Customer `json:"customers"`
}
