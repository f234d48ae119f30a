package model

import "time"

// Student is a single enrolled student
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Roll      string    `json:"roll"`
	ClassName string    `json:"class_name"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentIn is the payload for creating or updating a student
type StudentIn struct {
	Name      string `json:"name"`
	Roll      string `json:"roll"`
	ClassName string `json:"class_name"`
	Photo     string `json:"photo,omitempty"`
}

// ClassInfo describes one class and its enrolled headcount
type ClassInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Students int    `json:"students"`
}

// Summary holds the aggregate counts from the analytics endpoint
type Summary struct {
	Students          int `json:"students"`
	AttendanceRecords int `json:"attendance_records"`
}
