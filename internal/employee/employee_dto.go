package employee

type CreateEmployeeRequest struct {
	FullName            string `json:"full_name" binding:"required"`
	PositionTitle       string `json:"position_title" binding:"required"`
	EmployeeCode        string `json:"employee_code"`
	OfficeTag           string `json:"office_tag"`
	Active              *bool  `json:"active"`
	WS                  bool   `json:"ws"`
	Training            bool   `json:"training"`
	ConsulateAuthorized bool   `json:"consulate_authorized"`
	RestrictedPickPack  bool   `json:"restricted_pickpack"`
	RestrictedConsulate bool   `json:"restricted_consulate"`
	SaturdayTeam        string `json:"saturday_team" binding:"omitempty,oneof=A B"`
}

type UpdateEmployeeRequest struct {
	FullName            string `json:"full_name" binding:"required"`
	PositionTitle       string `json:"position_title" binding:"required"`
	EmployeeCode        string `json:"employee_code"`
	OfficeTag           string `json:"office_tag"`
	Active              *bool  `json:"active"`
	WS                  bool   `json:"ws"`
	Training            bool   `json:"training"`
	ConsulateAuthorized bool   `json:"consulate_authorized"`
	RestrictedPickPack  bool   `json:"restricted_pickpack"`
	RestrictedConsulate bool   `json:"restricted_consulate"`
	SaturdayTeam        string `json:"saturday_team" binding:"omitempty,oneof=A B"`
}

type EmployeeResponse struct {
	ID                  string `json:"id"`
	OfficeID            string `json:"office_id"`
	FullName            string `json:"full_name"`
	PositionTitle       string `json:"position_title"`
	EmployeeCode        string `json:"employee_code,omitempty"`
	OfficeTag           string `json:"office_tag,omitempty"`
	Active              bool   `json:"active"`
	WS                  bool   `json:"ws"`
	Training            bool   `json:"training"`
	ConsulateAuthorized bool   `json:"consulate_authorized"`
	RestrictedPickPack  bool   `json:"restricted_pickpack"`
	RestrictedConsulate bool   `json:"restricted_consulate"`
	SaturdayTeam        string `json:"saturday_team"`
}
