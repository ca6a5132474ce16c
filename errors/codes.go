package errors

// ErrorCode identifies an application error in responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007
	ErrorCode_VALIDATION_FAILED ErrorCode = 1008
	ErrorCode_RATE_LIMITED      ErrorCode = 1009

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001

	// Minutes
	ErrorCode_MOM_NOT_FOUND         ErrorCode = 3000
	ErrorCode_MOM_SESSION_NOT_FOUND ErrorCode = 3001
	ErrorCode_MOM_INVALID_STATE     ErrorCode = 3002
	ErrorCode_MOM_NOTHING_TO_SAVE   ErrorCode = 3003
	ErrorCode_MOM_SAVE_FAILED       ErrorCode = 3004
	ErrorCode_MOM_EXPORT_FAILED     ErrorCode = 3005
	ErrorCode_MOM_NOT_SAVED         ErrorCode = 3006

	// Action item conversion
	ErrorCode_CONVERSION_NOT_STARTED   ErrorCode = 4000
	ErrorCode_CONVERSION_EMPTY         ErrorCode = 4001
	ErrorCode_CONVERSION_INDEX_INVALID ErrorCode = 4002

	// External services
	ErrorCode_TRANSCRIPTION_FAILED   ErrorCode = 5000
	ErrorCode_TRANSCRIPTION_DISABLED ErrorCode = 5001
	ErrorCode_STORAGE_FAILED         ErrorCode = 5002

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 6000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                  "HTTP_OK",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:           "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:        "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:          "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:          "INVALID_PAYLOAD",
	ErrorCode_VALIDATION_FAILED:        "VALIDATION_FAILED",
	ErrorCode_RATE_LIMITED:             "RATE_LIMITED",
	ErrorCode_AUTH_INVALID_TOKEN:       "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:       "AUTH_TOKEN_EXPIRED",
	ErrorCode_MOM_NOT_FOUND:            "MOM_NOT_FOUND",
	ErrorCode_MOM_SESSION_NOT_FOUND:    "MOM_SESSION_NOT_FOUND",
	ErrorCode_MOM_INVALID_STATE:        "MOM_INVALID_STATE",
	ErrorCode_MOM_NOTHING_TO_SAVE:      "MOM_NOTHING_TO_SAVE",
	ErrorCode_MOM_SAVE_FAILED:          "SAVE_FAILED",
	ErrorCode_MOM_EXPORT_FAILED:        "MOM_EXPORT_FAILED",
	ErrorCode_MOM_NOT_SAVED:            "MOM_NOT_SAVED",
	ErrorCode_CONVERSION_NOT_STARTED:   "CONVERSION_NOT_STARTED",
	ErrorCode_CONVERSION_EMPTY:         "CONVERSION_EMPTY",
	ErrorCode_CONVERSION_INDEX_INVALID: "CONVERSION_INDEX_INVALID",
	ErrorCode_TRANSCRIPTION_FAILED:     "TRANSCRIPTION_FAILED",
	ErrorCode_TRANSCRIPTION_DISABLED:   "TRANSCRIPTION_DISABLED",
	ErrorCode_STORAGE_FAILED:           "STORAGE_FAILED",
	ErrorCode_DB_QUERY_FAILED:          "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText writes the symbolic name into JSON bodies
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
