package schema

// String formats recognized for type=string.
const (
	FormatDate     = "date"
	FormatDateTime = "date-time"
	FormatPassword = "password"
	FormatByte     = "byte"
	FormatBinary   = "binary"
	FormatEmail    = "email"
	FormatUUID     = "uuid"
	FormatURI      = "uri"
	FormatHostname = "hostname"
	FormatIPv4     = "ipv4"
	FormatIPv6     = "ipv6"
)

// Numeric formats recognized for type=number and type=integer.
const (
	FormatInt32  = "int32"
	FormatInt64  = "int64"
	FormatFloat  = "float"
	FormatDouble = "double"
)

var stringFormats = map[string]bool{
	FormatDate:     true,
	FormatDateTime: true,
	FormatPassword: true,
	FormatByte:     true,
	FormatBinary:   true,
	FormatEmail:    true,
	FormatUUID:     true,
	FormatURI:      true,
	FormatHostname: true,
	FormatIPv4:     true,
	FormatIPv6:     true,
}

var numberFormats = map[string]bool{
	FormatInt32:  true,
	FormatInt64:  true,
	FormatFloat:  true,
	FormatDouble: true,
}

// IsStringFormat reports whether f is a recognized string format.
func IsStringFormat(f string) bool { return stringFormats[f] }

// IsNumberFormat reports whether f is a recognized numeric format.
func IsNumberFormat(f string) bool { return numberFormats[f] }

// IsIntegerFormat reports whether f selects an integer value class.
func IsIntegerFormat(f string) bool { return f == FormatInt32 || f == FormatInt64 }

var validTypes = map[string]bool{
	TypeString:  true,
	TypeNumber:  true,
	TypeInteger: true,
	TypeBoolean: true,
	TypeArray:   true,
	TypeObject:  true,
	TypeNull:    true,
}

// IsValidType reports whether t is a recognized schema type.
func IsValidType(t string) bool { return validTypes[t] }
