package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"hostel/shared/cache"
	"hostel/shared/constant"
	"hostel/shared/dto"
	"hostel/shared/timezone"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

// ConvertStringToBool parses an optional boolean query value. Blank or malformed
// input yields nil, meaning "not filtered".
func ConvertStringToBool(value string) *bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		if value != "" {
			log.Debug().Str("value", value).Msg("ignoring malformed boolean")
		}

		return nil
	}

	return &parsed
}

func ConvertStringToInt(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer: %w", value, err)
	}

	return parsed, nil
}

func ConvertStringToFloat(value string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number: %w", value, err)
	}

	return parsed, nil
}

// CalculateTotalPage never reports fewer than one page.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// TransformFields collects the non-zero db-tagged fields of an update struct into a
// column map and stamps it with the modification audit columns.
func TransformFields(data any, actor string) map[string]any {
	value := reflect.ValueOf(data)
	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	for i := range value.NumField() {
		column := value.Type().Field(i).Tag.Get("db")
		if column == "" || column == "-" || value.Field(i).IsZero() {
			continue
		}

		fields[column] = value.Field(i).Interface()
	}

	return fields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterByIDAndVersion narrows FilterByID to one stored version of the row.
func FilterByIDAndVersion(id, fieldID, table string, version int) dto.FilterGroup {
	filter := FilterByID(id, fieldID, table)
	filter.Operator = dto.FilterGroupOperatorAnd
	filter.Filters = append(filter.Filters, dto.Filter{
		Field:    constant.FieldVersion,
		Value:    version,
		Operator: dto.FilterOperatorEq,
		Table:    table,
	})

	return filter
}

func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery hashes the query parameters and filter so list results get stable, short keys.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	raw, err := json.Marshal(struct {
		Params dto.QueryParams
		Filter dto.FilterGroup
	}{params, filter})
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to marshal cache key parts")

		raw = []byte(fmt.Sprintf("%+v%+v", params, filter))
	}

	return BuildCacheKey(prefix, strconv.FormatUint(xxhash.Sum64(raw), 16))
}

func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
