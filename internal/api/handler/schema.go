package handler

import "time"

// --- Requests ---

type banRequest struct {
	UID    string `json:"uid"    validate:"required"`
	Action string `json:"action" validate:"required"`
}

// grantRequest serves /becomeAdmin and /makeAdmin. The older clients post the
// grant code under "type".
type grantRequest struct {
	UID  string `json:"uid"`
	Code string `json:"code"`
	Type string `json:"type"`
}

func (r grantRequest) code() string {
	if r.Code != "" {
		return r.Code
	}
	return r.Type
}

type createUserRequest struct {
	UID   string `json:"uid"             validate:"required"`
	Email string `json:"email,omitempty"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Responses ---

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type banResponse struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
}

type grantResponse struct {
	Success   bool       `json:"success"`
	Type      string     `json:"type"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type adminItem struct {
	UID       string     `json:"uid"`
	Email     string     `json:"email,omitempty"`
	Type      string     `json:"type"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type listAdminsResponse struct {
	Success bool        `json:"success"`
	Admins  []adminItem `json:"admins"`
}

type userItem struct {
	UID            string     `json:"uid"`
	Email          string     `json:"email,omitempty"`
	Banned         bool       `json:"banned"`
	IsAdmin        bool       `json:"isAdmin"`
	AdminExpiresAt *time.Time `json:"adminExpiresAt"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

type listUsersResponse struct {
	Success bool       `json:"success"`
	Users   []userItem `json:"users"`
}

type createUserResponse struct {
	Success bool `json:"success"`
	Created bool `json:"created"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	UID       string    `json:"uid"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
