package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList holds a product list field (images, colors, features).
// Hand-written documents sometimes carry a comma-separated string instead of
// an array; both forms decode.
type StringList []string

// SplitList turns "White, Black" into a compacted list.
func SplitList(value string) StringList {
	return StringList(strings.Split(value, ",")).Compact()
}

// Compact trims entries and drops blanks and repeats while keeping order.
// The result is never nil.
func (s StringList) Compact() StringList {
	out := make(StringList, 0, len(s))
	seen := make(map[string]struct{}, len(s))
	for _, entry := range s {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	return out
}

func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = nil
	case bsontype.String:
		*s = SplitList(raw.StringValue())
	case bsontype.Array:
		values, err := raw.Array().Values()
		if err != nil {
			return err
		}
		list := make(StringList, 0, len(values))
		for _, value := range values {
			entry, ok := value.StringValueOK()
			if !ok {
				return fmt.Errorf("models: list element is %s, want string", value.Type)
			}
			list = append(list, entry)
		}
		*s = list
	default:
		return fmt.Errorf("models: cannot decode %s into StringList", t)
	}
	return nil
}

// MarshalBSONValue writes the compacted list as an array.
func (s StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(s.Compact()))
}
