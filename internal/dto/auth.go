package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	StudentNo string `json:"student_no" binding:"required"`
	Password  string `json:"password"   binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int64           `json:"expires_in"` // access token 有效期（秒）
	Student      StudentResponse `json:"student"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse 刷新 Token 响应
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID            string  `json:"id"`
	StudentNo     string  `json:"student_no"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	ProgrammeID   *string `json:"programme_id,omitempty"`
	ProgrammeName string  `json:"programme_name,omitempty"`
}
