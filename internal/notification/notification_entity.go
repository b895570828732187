package notification

import "time"

type Notification struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	LeaveRequestID string    `json:"leaveRequestId"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
}
