package types

// Intent tags what kind of operation a matched sentence represents.
// Closed vocabulary; the registry rejects rules declaring any other tag.
type Intent string

// Context operations.
const (
	IntentGetContextField    Intent = "get-context-field"
	IntentGetContextCount    Intent = "get-context-count"
	IntentGetContextItem     Intent = "get-context-item"
	IntentSetContextValue    Intent = "set-context-value"
	IntentCopyContext        Intent = "copy-context"
	IntentClearContext       Intent = "clear-context"
	IntentVerifyContextCount Intent = "verify-context-count"
	IntentVerifyContextField Intent = "verify-context-field"
	IntentVerifyContextState Intent = "verify-context-state"
	IntentFilterContext      Intent = "filter-context"
	IntentSortContext        Intent = "sort-context"
	IntentMergeContext       Intent = "merge-context"
	IntentLogContext         Intent = "log-context"
)

// Database operations.
const (
	IntentDBQuery       Intent = "db-query"
	IntentDBGetValue    Intent = "db-get-value"
	IntentDBGetRow      Intent = "db-get-row"
	IntentDBGetRows     Intent = "db-get-rows"
	IntentDBCount       Intent = "db-count"
	IntentDBExecute     Intent = "db-execute"
	IntentVerifyDBField Intent = "verify-db-field"
	IntentVerifyDBCount Intent = "verify-db-count"
	IntentVerifyDBExist Intent = "verify-db-exists"
	IntentDBConnect     Intent = "db-connect"
	IntentDBDisconnect  Intent = "db-disconnect"
	IntentDBTransaction Intent = "db-transaction"
)

// Data mapping operations.
const (
	IntentMapData         Intent = "map-data"
	IntentMapField        Intent = "map-field"
	IntentMapDBResult     Intent = "map-db-result"
	IntentCompareAPIDB    Intent = "compare-api-db"
	IntentCompareContext  Intent = "compare-context"
	IntentTransformData   Intent = "transform-data"
	IntentLoadTestData    Intent = "load-test-data"
	IntentExtractJSONPath Intent = "extract-json-path"
)

// API operations.
const (
	IntentAPICall              Intent = "api-call"
	IntentAPISetBaseURL        Intent = "api-set-base-url"
	IntentAPISetHeader         Intent = "api-set-header"
	IntentAPIAuth              Intent = "api-auth"
	IntentAPIVerifyStatus      Intent = "api-verify-status"
	IntentAPIVerifyJSON        Intent = "api-verify-json"
	IntentAPIVerifyHeader      Intent = "api-verify-header"
	IntentAPIVerifyTime        Intent = "api-verify-time"
	IntentAPIVerifyBody        Intent = "api-verify-body"
	IntentAPIVerifySchema      Intent = "api-verify-schema"
	IntentAPIVerifyArrayLength Intent = "api-verify-array-length"
	IntentAPIStoreField        Intent = "api-store-field"
	IntentAPIStoreResponse     Intent = "api-store-response"
)

// UI actions.
const (
	IntentNavigate         Intent = "navigate"
	IntentReload           Intent = "reload"
	IntentNavigateHistory  Intent = "navigate-history"
	IntentClick            Intent = "click"
	IntentDoubleClick      Intent = "double-click"
	IntentRightClick       Intent = "right-click"
	IntentFill             Intent = "fill"
	IntentClearField       Intent = "clear-field"
	IntentSelectOption     Intent = "select-option"
	IntentSetCheckbox      Intent = "set-checkbox"
	IntentHover            Intent = "hover"
	IntentPressKey         Intent = "press-key"
	IntentUploadFile       Intent = "upload-file"
	IntentScroll           Intent = "scroll"
	IntentSwitchFrame      Intent = "switch-frame"
	IntentSwitchWindow     Intent = "switch-window"
	IntentHandleDialog     Intent = "handle-dialog"
	IntentStoreElementText Intent = "store-element-text"
	IntentStoreElementAttr Intent = "store-element-attribute"
	IntentScreenshot       Intent = "screenshot"
	IntentDragDrop         Intent = "drag-drop"
)

// UI and page assertions.
const (
	IntentVerifyElementText  Intent = "verify-element-text"
	IntentVerifyElementState Intent = "verify-element-state"
	IntentVerifyElementCount Intent = "verify-element-count"
	IntentVerifyElementAttr  Intent = "verify-element-attribute"
	IntentVerifyElementValue Intent = "verify-element-value"
	IntentVerifyPageTitle    Intent = "verify-page-title"
	IntentVerifyURL          Intent = "verify-url"
	IntentVerifyPageText     Intent = "verify-page-text"
	IntentVerifyTextVisible  Intent = "verify-text-visible"
	IntentVerifyDialogText   Intent = "verify-dialog-text"
	IntentVerifyTableCell    Intent = "verify-table-cell"
)

// Waits.
const (
	IntentWaitForElement  Intent = "wait-for-element"
	IntentWaitForText     Intent = "wait-for-text"
	IntentWaitDuration    Intent = "wait-duration"
	IntentWaitPageLoad    Intent = "wait-page-load"
	IntentWaitURL         Intent = "wait-url"
	IntentWaitNetworkIdle Intent = "wait-network-idle"
)

// Variables.
const (
	IntentGenerateValue  Intent = "generate-value"
	IntentStoreDate      Intent = "store-date"
	IntentSetVariable    Intent = "set-variable"
	IntentVerifyVariable Intent = "verify-variable"
	IntentConcatenate    Intent = "concatenate"
	IntentSetEnvironment Intent = "set-environment"
	IntentCalculate      Intent = "calculate"
)

var knownIntents = map[Intent]struct{}{}

func init() {
	for _, in := range AllIntents() {
		knownIntents[in] = struct{}{}
	}
}

// Known reports whether in belongs to the closed vocabulary.
func (in Intent) Known() bool {
	_, ok := knownIntents[in]
	return ok
}

// AllIntents returns the full vocabulary in declaration order.
func AllIntents() []Intent {
	return []Intent{
		IntentGetContextField, IntentGetContextCount, IntentGetContextItem,
		IntentSetContextValue, IntentCopyContext, IntentClearContext,
		IntentVerifyContextCount, IntentVerifyContextField, IntentVerifyContextState,
		IntentFilterContext, IntentSortContext, IntentMergeContext, IntentLogContext,

		IntentDBQuery, IntentDBGetValue, IntentDBGetRow, IntentDBGetRows,
		IntentDBCount, IntentDBExecute, IntentVerifyDBField, IntentVerifyDBCount,
		IntentVerifyDBExist, IntentDBConnect, IntentDBDisconnect, IntentDBTransaction,

		IntentMapData, IntentMapField, IntentMapDBResult, IntentCompareAPIDB,
		IntentCompareContext, IntentTransformData, IntentLoadTestData, IntentExtractJSONPath,

		IntentAPICall, IntentAPISetBaseURL, IntentAPISetHeader, IntentAPIAuth,
		IntentAPIVerifyStatus, IntentAPIVerifyJSON, IntentAPIVerifyHeader,
		IntentAPIVerifyTime, IntentAPIVerifyBody, IntentAPIVerifySchema,
		IntentAPIVerifyArrayLength, IntentAPIStoreField, IntentAPIStoreResponse,

		IntentNavigate, IntentReload, IntentNavigateHistory, IntentClick,
		IntentDoubleClick, IntentRightClick, IntentFill, IntentClearField,
		IntentSelectOption, IntentSetCheckbox, IntentHover, IntentPressKey,
		IntentUploadFile, IntentScroll, IntentSwitchFrame, IntentSwitchWindow,
		IntentHandleDialog, IntentStoreElementText, IntentStoreElementAttr,
		IntentScreenshot, IntentDragDrop,

		IntentVerifyElementText, IntentVerifyElementState, IntentVerifyElementCount,
		IntentVerifyElementAttr, IntentVerifyElementValue, IntentVerifyPageTitle,
		IntentVerifyURL, IntentVerifyPageText, IntentVerifyTextVisible,
		IntentVerifyDialogText, IntentVerifyTableCell,

		IntentWaitForElement, IntentWaitForText, IntentWaitDuration,
		IntentWaitPageLoad, IntentWaitURL, IntentWaitNetworkIdle,

		IntentGenerateValue, IntentStoreDate, IntentSetVariable, IntentVerifyVariable,
		IntentConcatenate, IntentSetEnvironment, IntentCalculate,
	}
}
