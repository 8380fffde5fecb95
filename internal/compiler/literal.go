package compiler

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/tordrt/tablesql/internal/schema"
)

const dateLayout = "2006-01-02"

// Quote wraps s in single quotes, doubling any embedded quote
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Literal renders a cell value as a SQL literal. The field type only
// affects how time values are rendered; no type compatibility is checked.
// A nil value, NaN or an infinity renders as NULL.
func Literal(fieldType schema.FieldType, value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case string:
		return Quote(v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return "NULL"
		}
		return cast.ToString(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "NULL"
		}
		return cast.ToString(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToString(v)
	case json.Number:
		return v.String()
	case time.Time:
		if fieldType == schema.FieldDate {
			return Quote(v.Format(dateLayout))
		}
		return Quote(v.Format(time.RFC3339Nano))
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return Literal(fieldType, *v)
	case fmt.Stringer:
		return Quote(v.String())
	}

	data, err := json.Marshal(value)
	if err != nil {
		return Quote(cast.ToString(value))
	}
	return Quote(string(data))
}
