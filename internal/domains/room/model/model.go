package model

import (
	"time"

	"hostel/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "room_details"
	EntityName = "room"

	FieldID            = "room_id"
	FieldRoomNumber    = "room_number"
	FieldMonthlyPrice  = "monthly_price"
	FieldRoomType      = "room_type"
	FieldMaxOccupancy  = "max_occupancy"
	FieldFloorNumber   = "floor_number"
	FieldSize          = "size"
	FieldStatus        = "status"
	FieldAvailableFrom = "available_from"
	FieldAvailableTo   = "available_to"
	FieldImages        = "images"
	FieldVersion       = "version"
)

const (
	TypeSingle = "single"
	TypeShared = "shared"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
	StatusUnavailable = "unavailable"
)

const DefaultMaxOccupancy = 1

// Room is one physical room of the hostel. Images holds /uploads references in upload order.
type Room struct {
	RoomID          string         `db:"room_id"`
	RoomNumber      string         `db:"room_number"`
	MonthlyPrice    float64        `db:"monthly_price"`
	RoomType        string         `db:"room_type"`
	MaxOccupancy    int            `db:"max_occupancy"`
	FloorNumber     *int           `db:"floor_number"`
	Size            *float64       `db:"size"`
	Description     *string        `db:"description"`
	AvailableFrom   *time.Time     `db:"available_from"`
	AvailableTo     *time.Time     `db:"available_to"`
	Status          string         `db:"status"`
	PrivateBathroom bool           `db:"private_bathroom"`
	AirConditioning bool           `db:"air_conditioning"`
	Wifi            bool           `db:"wifi"`
	DeskCount       int            `db:"desk_count"`
	Lockers         int            `db:"lockers"`
	Fridge          bool           `db:"fridge"`
	TV              bool           `db:"tv"`
	Balcony         bool           `db:"balcony"`
	Microwave       bool           `db:"microwave"`
	Washer          bool           `db:"washer"`
	WaterHeater     bool           `db:"water_heater"`
	Parking         bool           `db:"parking"`
	Images          pq.StringArray `db:"images"`
	Version         int            `db:"version"`
	model.Metadata
}
