package model

import "campusbook/shared/model"

const (
	TableName  = "resources"
	EntityName = "resource"

	FieldID          = "id"
	FieldName        = "name"
	FieldType        = "type"
	FieldLocation    = "location"
	FieldCapacity    = "capacity"
	FieldDescription = "description"
	FieldActive      = "active"
)

// SortableFields are the columns a listing may order by.
var SortableFields = []string{FieldName, FieldType, FieldLocation, FieldCapacity}

type Resource struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Type        string  `db:"type"`
	Location    string  `db:"location"`
	Capacity    int     `db:"capacity"`
	Description *string `db:"description"`
	Active      bool    `db:"active"`
	model.Metadata
}

// Admits reports whether participants fit. A capacity of zero means unlimited.
func (r Resource) Admits(participants *int) bool {
	if participants == nil || r.Capacity <= 0 {
		return true
	}

	return *participants <= r.Capacity
}
