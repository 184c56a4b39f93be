package dto

type LoginRequestDTO struct {
	Username string `json:"username" example:"john" validate:"required,min=3,max=50"`
	Password string `json:"password" example:"password" validate:"required"`
}

type LoginResponseDTO struct {
	Token   string `json:"token" example:"8f14e45f-ceea-467f-aab4-1b5e0dba2d7f"`
	Message string `json:"message" example:"User successfully authenticated"`
}
