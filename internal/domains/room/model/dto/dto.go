package dto

import (
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"hostel/internal/domains/room/model"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"
)

// SortFields maps the public sort keys of the room list onto columns.
var SortFields = map[string]string{
	"roomNumber":   model.FieldRoomNumber,
	"monthlyPrice": model.FieldMonthlyPrice,
	"floorNumber":  model.FieldFloorNumber,
	"createdAt":    constant.FieldCreatedAt,
}

// ImageFile is one uploaded file as received from the client.
type ImageFile struct {
	FileName string
	Data     []byte
}

type AttachImagesRequest struct {
	Images []ImageFile `json:"images" validate:"required,min=1,max=10"`
}

type CreateRoomRequest struct {
	RoomNumber      string      `json:"roomNumber"      validate:"required,notblank,max=50"`
	MonthlyPrice    *float64    `json:"monthlyPrice"    validate:"required,gte=0,lt=10000000000,decimals=2"`
	RoomType        string      `json:"roomType"        validate:"required,oneof=single shared"`
	MaxOccupancy    *int        `json:"maxOccupancy"    validate:"omitempty,gte=1"`
	FloorNumber     *int        `json:"floorNumber"`
	Size            *float64    `json:"size"            validate:"omitempty,gt=0,lt=100000000,decimals=2"`
	Description     *string     `json:"description"     validate:"omitempty,max=2000"`
	AvailableFrom   *string     `json:"availableFrom"   validate:"omitempty,date"`
	AvailableTo     *string     `json:"availableTo"     validate:"omitempty,date"`
	Status          string      `json:"status"          validate:"omitempty,oneof=available occupied maintenance unavailable"`
	PrivateBathroom bool        `json:"privateBathroom"`
	AirConditioning bool        `json:"airConditioning"`
	Wifi            bool        `json:"wifi"`
	DeskCount       int         `json:"deskCount"       validate:"gte=0"`
	Lockers         int         `json:"lockers"         validate:"gte=0"`
	Fridge          bool        `json:"fridge"`
	TV              bool        `json:"tv"`
	Balcony         bool        `json:"balcony"`
	Microwave       bool        `json:"microwave"`
	Washer          bool        `json:"washer"`
	WaterHeater     bool        `json:"waterHeater"`
	Parking         bool        `json:"parking"`
	Images          []ImageFile `json:"-"               validate:"max=10"`
}

// FromForm fills the request from a multipart form. Files are read by the caller.
func (c *CreateRoomRequest) FromForm(form *multipart.Form) error {
	values := url.Values(form.Value)
	parser := formParser{values: values}

	c.RoomNumber = values.Get("roomNumber")
	c.RoomType = values.Get("roomType")
	c.Status = values.Get("status")
	c.MonthlyPrice = parser.number("monthlyPrice")
	c.MaxOccupancy = parser.integer("maxOccupancy")
	c.FloorNumber = parser.integer("floorNumber")
	c.Size = parser.number("size")
	c.Description = parser.text("description")
	c.AvailableFrom = parser.text("availableFrom")
	c.AvailableTo = parser.text("availableTo")
	c.PrivateBathroom = parser.flag("privateBathroom")
	c.AirConditioning = parser.flag("airConditioning")
	c.Wifi = parser.flag("wifi")
	c.Fridge = parser.flag("fridge")
	c.TV = parser.flag("tv")
	c.Balcony = parser.flag("balcony")
	c.Microwave = parser.flag("microwave")
	c.Washer = parser.flag("washer")
	c.WaterHeater = parser.flag("waterHeater")
	c.Parking = parser.flag("parking")

	if deskCount := parser.integer("deskCount"); deskCount != nil {
		c.DeskCount = *deskCount
	}

	if lockers := parser.integer("lockers"); lockers != nil {
		c.Lockers = *lockers
	}

	return parser.err
}

func (c *CreateRoomRequest) ToModel(id, user string) (model.Room, error) {
	from, to, err := availability(c.AvailableFrom, c.AvailableTo)
	if err != nil {
		return model.Room{}, err
	}

	status := c.Status
	if status == constant.Empty {
		status = model.StatusAvailable
	}

	maxOccupancy := model.DefaultMaxOccupancy
	if c.MaxOccupancy != nil {
		maxOccupancy = *c.MaxOccupancy
	}

	var monthlyPrice float64
	if c.MonthlyPrice != nil {
		monthlyPrice = *c.MonthlyPrice
	}

	now := timezone.Now()

	return model.Room{
		RoomID:          id,
		RoomNumber:      strings.TrimSpace(c.RoomNumber),
		MonthlyPrice:    monthlyPrice,
		RoomType:        c.RoomType,
		MaxOccupancy:    maxOccupancy,
		FloorNumber:     c.FloorNumber,
		Size:            c.Size,
		Description:     trimmed(c.Description),
		AvailableFrom:   from,
		AvailableTo:     to,
		Status:          status,
		PrivateBathroom: c.PrivateBathroom,
		AirConditioning: c.AirConditioning,
		Wifi:            c.Wifi,
		DeskCount:       c.DeskCount,
		Lockers:         c.Lockers,
		Fridge:          c.Fridge,
		TV:              c.TV,
		Balcony:         c.Balcony,
		Microwave:       c.Microwave,
		Washer:          c.Washer,
		WaterHeater:     c.WaterHeater,
		Parking:         c.Parking,
		Images:          []string{},
		Version:         1,
		Metadata:        gModel.NewMetadata(user, now),
	}, nil
}

// UpdateRoomRequest carries a partial update. Nil fields keep their stored value.
// A room id in the body is not part of the request and is dropped while decoding.
type UpdateRoomRequest struct {
	RoomNumber      *string  `db:"room_number"      json:"roomNumber"      validate:"omitempty,notblank,max=50"`
	MonthlyPrice    *float64 `db:"monthly_price"    json:"monthlyPrice"    validate:"omitempty,gte=0,lt=10000000000,decimals=2"`
	RoomType        *string  `db:"room_type"        json:"roomType"        validate:"omitempty,oneof=single shared"`
	MaxOccupancy    *int     `db:"max_occupancy"    json:"maxOccupancy"    validate:"omitempty,gte=1"`
	FloorNumber     *int     `db:"floor_number"     json:"floorNumber"`
	Size            *float64 `db:"size"             json:"size"            validate:"omitempty,gt=0,lt=100000000,decimals=2"`
	Description     *string  `db:"description"      json:"description"     validate:"omitempty,max=2000"`
	AvailableFrom   *string  `db:"-"                json:"availableFrom"   validate:"omitempty,date"`
	AvailableTo     *string  `db:"-"                json:"availableTo"     validate:"omitempty,date"`
	Status          *string  `db:"status"           json:"status"          validate:"omitempty,oneof=available occupied maintenance unavailable"`
	PrivateBathroom *bool    `db:"private_bathroom" json:"privateBathroom"`
	AirConditioning *bool    `db:"air_conditioning" json:"airConditioning"`
	Wifi            *bool    `db:"wifi"             json:"wifi"`
	DeskCount       *int     `db:"desk_count"       json:"deskCount"       validate:"omitempty,gte=0"`
	Lockers         *int     `db:"lockers"          json:"lockers"         validate:"omitempty,gte=0"`
	Fridge          *bool    `db:"fridge"           json:"fridge"`
	TV              *bool    `db:"tv"               json:"tv"`
	Balcony         *bool    `db:"balcony"          json:"balcony"`
	Microwave       *bool    `db:"microwave"        json:"microwave"`
	Washer          *bool    `db:"washer"           json:"washer"`
	WaterHeater     *bool    `db:"water_heater"     json:"waterHeater"`
	Parking         *bool    `db:"parking"          json:"parking"`
	Version         *int     `db:"-"                json:"version"         validate:"omitempty,gte=1"`
}

// ToFields returns the columns to write, merged against the stored room so the
// availability window is checked as a whole.
func (u *UpdateRoomRequest) ToFields(current model.Room, user string) (map[string]any, error) {
	if u.RoomNumber != nil {
		roomNumber := strings.TrimSpace(*u.RoomNumber)
		u.RoomNumber = &roomNumber
	}

	u.Description = trimmed(u.Description)

	from, to, err := availability(u.AvailableFrom, u.AvailableTo)
	if err != nil {
		return nil, err
	}

	mergedFrom, mergedTo := current.AvailableFrom, current.AvailableTo
	if from != nil {
		mergedFrom = from
	}

	if to != nil {
		mergedTo = to
	}

	if err := checkWindow(mergedFrom, mergedTo); err != nil {
		return nil, err
	}

	fields := shared.TransformFields(*u, user)

	if from != nil {
		fields[model.FieldAvailableFrom] = *from
	}

	if to != nil {
		fields[model.FieldAvailableTo] = *to
	}

	return fields, nil
}

type RoomResponse struct {
	RoomID          string   `json:"roomId"`
	RoomNumber      string   `json:"roomNumber"`
	MonthlyPrice    float64  `json:"monthlyPrice"`
	RoomType        string   `json:"roomType"`
	MaxOccupancy    int      `json:"maxOccupancy"`
	FloorNumber     *int     `json:"floorNumber,omitempty"`
	Size            *float64 `json:"size,omitempty"`
	Description     *string  `json:"description,omitempty"`
	AvailableFrom   *string  `json:"availableFrom,omitempty"`
	AvailableTo     *string  `json:"availableTo,omitempty"`
	Status          string   `json:"status"`
	PrivateBathroom bool     `json:"privateBathroom"`
	AirConditioning bool     `json:"airConditioning"`
	Wifi            bool     `json:"wifi"`
	DeskCount       int      `json:"deskCount"`
	Lockers         int      `json:"lockers"`
	Fridge          bool     `json:"fridge"`
	TV              bool     `json:"tv"`
	Balcony         bool     `json:"balcony"`
	Microwave       bool     `json:"microwave"`
	Washer          bool     `json:"washer"`
	WaterHeater     bool     `json:"waterHeater"`
	Parking         bool     `json:"parking"`
	Images          []string `json:"images"`
	Version         int      `json:"version"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.MonthlyPrice = model.MonthlyPrice
	r.RoomType = model.RoomType
	r.MaxOccupancy = model.MaxOccupancy
	r.FloorNumber = model.FloorNumber
	r.Size = model.Size
	r.Description = model.Description
	r.AvailableFrom = formatDate(model.AvailableFrom)
	r.AvailableTo = formatDate(model.AvailableTo)
	r.Status = model.Status
	r.PrivateBathroom = model.PrivateBathroom
	r.AirConditioning = model.AirConditioning
	r.Wifi = model.Wifi
	r.DeskCount = model.DeskCount
	r.Lockers = model.Lockers
	r.Fridge = model.Fridge
	r.TV = model.TV
	r.Balcony = model.Balcony
	r.Microwave = model.Microwave
	r.Washer = model.Washer
	r.WaterHeater = model.WaterHeater
	r.Parking = model.Parking
	r.Version = model.Version
	r.Metadata.FromModel(model.Metadata)

	r.Images = []string(model.Images)
	if r.Images == nil {
		r.Images = []string{}
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"totalPage"`
	TotalData int            `json:"totalData"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// RoomFilter holds the list filters accepted on GET /roomdetails.
type RoomFilter struct {
	Status      string   `json:"status"      validate:"omitempty,oneof=available occupied maintenance unavailable"`
	RoomType    string   `json:"roomType"    validate:"omitempty,oneof=single shared"`
	FloorNumber *int     `json:"floorNumber"`
	RoomNumber  string   `json:"roomNumber"  validate:"max=50"`
	MinPrice    *float64 `json:"minPrice"    validate:"omitempty,gte=0"`
	MaxPrice    *float64 `json:"maxPrice"    validate:"omitempty,gte=0"`
}

func (f *RoomFilter) FromQuery(query url.Values) error {
	parser := formParser{values: query}

	f.Status = query.Get("status")
	f.RoomType = query.Get("roomType")
	f.RoomNumber = strings.TrimSpace(query.Get("roomNumber"))
	f.FloorNumber = parser.integer("floorNumber")
	f.MinPrice = parser.number("minPrice")
	f.MaxPrice = parser.number("maxPrice")

	return parser.err
}

func (f *RoomFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Status != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    f.Status,
			Table:    model.TableName,
		})
	}

	if f.RoomType != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldRoomType,
			Operator: gDto.FilterOperatorEq,
			Value:    f.RoomType,
			Table:    model.TableName,
		})
	}

	if f.FloorNumber != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldFloorNumber,
			Operator: gDto.FilterOperatorEq,
			Value:    *f.FloorNumber,
			Table:    model.TableName,
		})
	}

	if f.RoomNumber != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldRoomNumber,
			Operator: gDto.FilterOperatorLike,
			Value:    f.RoomNumber,
			Table:    model.TableName,
		})
	}

	if f.MinPrice != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  "min_price",
			Field:    model.FieldMonthlyPrice,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    *f.MinPrice,
			Table:    model.TableName,
		})
	}

	if f.MaxPrice != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  "max_price",
			Field:    model.FieldMonthlyPrice,
			Operator: gDto.FilterOperatorLessEq,
			Value:    *f.MaxPrice,
			Table:    model.TableName,
		})
	}

	return group
}

func availability(fromValue, toValue *string) (from, to *time.Time, err error) {
	if from, err = parseDate("availableFrom", fromValue); err != nil {
		return nil, nil, err
	}

	if to, err = parseDate("availableTo", toValue); err != nil {
		return nil, nil, err
	}

	return from, to, checkWindow(from, to)
}

func checkWindow(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return failure.BadRequestFromString("availableTo must not be before availableFrom")
	}

	return nil
}

func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	parsed, err := timezone.ParseDate(*value)
	if err != nil {
		return nil, failure.BadRequestFromString(field + " must be a date (YYYY-MM-DD)")
	}

	return &parsed, nil
}

func formatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}

	formatted := timezone.Format(*value, time.DateOnly)

	return &formatted
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}

	out := strings.TrimSpace(*value)

	return &out
}

// formParser collects the first conversion error so form decoding reads top to bottom.
type formParser struct {
	values url.Values
	err    error
}

func (p *formParser) text(key string) *string {
	value := p.values.Get(key)
	if value == constant.Empty {
		return nil
	}

	return &value
}

func (p *formParser) integer(key string) *int {
	raw := p.values.Get(key)
	if raw == constant.Empty {
		return nil
	}

	value, err := shared.ConvertStringToInt(raw)
	if err != nil {
		p.fail(key, "must be an integer")

		return nil
	}

	return &value
}

func (p *formParser) number(key string) *float64 {
	raw := p.values.Get(key)
	if raw == constant.Empty {
		return nil
	}

	value, err := shared.ConvertStringToFloat(raw)
	if err != nil {
		p.fail(key, "must be a number")

		return nil
	}

	return &value
}

func (p *formParser) flag(key string) bool {
	value := shared.ConvertStringToBool(p.values.Get(key))

	return value != nil && *value
}

func (p *formParser) fail(key, reason string) {
	if p.err == nil {
		p.err = failure.BadRequestFromString(fmt.Sprintf("%s %s", key, reason))
	}
}
