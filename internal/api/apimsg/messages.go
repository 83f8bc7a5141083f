// Package apimsg is the catalog of machine-readable API messages. Every
// failure surfaced to a client carries one of these codes, so callers
// can branch programmatically instead of parsing prose.
package apimsg

import "net/http"

type Message struct {
	Code    string
	Status  int
	Message string
}

var (
	ValidationRequiredFields = Message{
		Code:    "VALIDATION_REQUIRED_FIELDS",
		Status:  http.StatusBadRequest,
		Message: "Name, email, password and employeeId are required.",
	}

	ValidationLoginFields = Message{
		Code:    "VALIDATION_LOGIN_FIELDS",
		Status:  http.StatusBadRequest,
		Message: "Email and password are required.",
	}

	ValidationMonth = Message{
		Code:    "VALIDATION_MONTH",
		Status:  http.StatusBadRequest,
		Message: "Month must be formatted as YYYY-MM.",
	}

	ValidationDate = Message{
		Code:    "VALIDATION_DATE",
		Status:  http.StatusBadRequest,
		Message: "Date must be formatted as YYYY-MM-DD.",
	}

	ManagerRegistrationForbidden = Message{
		Code:    "MANAGER_REGISTRATION_FORBIDDEN",
		Status:  http.StatusForbidden,
		Message: "Managers cannot register via this route.",
	}

	UserAlreadyExists = Message{
		Code:    "USER_ALREADY_EXISTS",
		Status:  http.StatusBadRequest,
		Message: "User already exists, try logging in.",
	}

	UserNotFound = Message{
		Code:    "USER_NOT_FOUND",
		Status:  http.StatusNotFound,
		Message: "No user found, please register first.",
	}

	CurrentUserNotFound = Message{
		Code:    "CURRENT_USER_NOT_FOUND",
		Status:  http.StatusNotFound,
		Message: "User not found.",
	}

	Unauthorized = Message{
		Code:    "UNAUTHORIZED",
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized.",
	}

	Forbidden = Message{
		Code:    "FORBIDDEN",
		Status:  http.StatusForbidden,
		Message: "You do not have permission to access this resource.",
	}

	InvalidCredentials = Message{
		Code:    "INVALID_CREDENTIALS",
		Status:  http.StatusUnauthorized,
		Message: "Incorrect credentials.",
	}

	AlreadyCheckedIn = Message{
		Code:    "ALREADY_CHECKED_IN",
		Status:  http.StatusConflict,
		Message: "You have already checked in today.",
	}

	AlreadyCheckedOut = Message{
		Code:    "ALREADY_CHECKED_OUT",
		Status:  http.StatusConflict,
		Message: "You have already checked out today.",
	}

	NoActiveCheckIn = Message{
		Code:    "NO_ACTIVE_CHECKIN",
		Status:  http.StatusBadRequest,
		Message: "No active check-in found for today.",
	}

	RouteNotFound = Message{
		Code:    "ROUTE_NOT_FOUND",
		Status:  http.StatusNotFound,
		Message: "Route not found.",
	}

	InternalServerError = Message{
		Code:    "INTERNAL_SERVER_ERROR",
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong, please try again.",
	}
)
