package types

import (
	"sort"
	"strconv"
)

// Params is the flat key-value mapping carried by every intent. Values are
// scalars: string, int64, float64 or bool. A key that is absent means "not
// specified"; a key mapped to "" means "specified as empty".
type Params map[string]any

// Shared parameter keys. Stable contract names across rule tables.
const (
	KeySourceContextVar = "sourceContextVar"
	KeyTargetContextVar = "targetContextVar"
	KeyContextField     = "contextField"
	KeyItemPosition     = "itemPosition"
	KeyItemIndex        = "itemIndex"
	KeySortOrder        = "sortOrder"
	KeyScope            = "scope"

	KeyDBAlias  = "dbAlias"
	KeyDBQuery  = "dbQuery"
	KeyDBParams = "dbParams"
	KeyDBColumn = "dbColumn"
	KeyTxAction = "txAction"
	KeyRowCount = "rowCount"

	KeyMapName     = "mapName"
	KeySourceField = "sourceField"
	KeyTargetField = "targetField"
	KeyTransform   = "transform"
	KeyFileName    = "fileName"
	KeySheetName   = "sheetName"
	KeyIgnore      = "ignoreFields"
	KeyMatchKey    = "matchKey"

	KeyAPIURL         = "apiUrl"
	KeyHTTPMethod     = "httpMethod"
	KeyRequestBody    = "requestBody"
	KeyRequestHeaders = "requestHeaders"
	KeyHeaderName     = "headerName"
	KeyHeaderValue    = "headerValue"
	KeyAuthType       = "authType"
	KeyAuthParams     = "authParams"
	KeyJSONPath       = "jsonPath"
	KeyComparisonOp   = "comparisonOp"
	KeyTolerance      = "tolerance"
	KeyMaxResponseMs  = "maxResponseMs"
	KeyStatusClass    = "statusClass"
	KeySchemaName     = "schemaName"
	KeyItemCount      = "itemCount"

	KeyElementType   = "elementType"
	KeyElementIndex  = "elementIndex"
	KeyAttributeName = "attributeName"
	KeyElementState  = "elementState"
	KeyKey           = "key"
	KeyDirection     = "direction"
	KeyFrameName     = "frameName"
	KeyWindowIndex   = "windowIndex"
	KeyDialogAction  = "dialogAction"
	KeyScreenshot    = "screenshotName"
	KeyDropTarget    = "dropTarget"
	KeyRowIndex      = "rowIndex"
	KeyColumnIndex   = "columnIndex"
	KeyURL           = "url"

	KeyCondition  = "condition"
	KeyTimeoutMs  = "timeoutMs"
	KeyDurationMs = "durationMs"

	KeyVariableName = "variableName"
	KeyValueKind    = "valueKind"
	KeyLength       = "length"
	KeyDateKind     = "dateKind"
	KeyDateFormat   = "dateFormat"
	KeyEnvironment  = "environment"
	KeyArithmetic   = "arithmetic"
	KeyOperandLeft  = "operandLeft"
	KeyOperandRight = "operandRight"
)

// Has reports whether key was specified.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the value for key rendered as a string.
// Returns ("", false) when the key is absent.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case int64:
		return strconv.FormatInt(s, 10), true
	case int:
		return strconv.Itoa(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

// Int returns the integer value for key. Numeric strings are accepted.
func (p Params) Int(key string) (int64, bool) {
	switch v := p[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Float returns the float value for key. Numeric strings are accepted.
func (p Params) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Keys returns the parameter keys in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy. Values are scalars so a shallow copy is complete.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
