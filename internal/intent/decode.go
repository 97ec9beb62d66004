package intent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// families maps every intent to its payload kind.
var families = map[types.Intent]Kind{
	types.IntentGetContextField: KindContextRead,
	types.IntentGetContextCount: KindContextRead,
	types.IntentGetContextItem:  KindContextRead,

	types.IntentSetContextValue: KindContextWrite,
	types.IntentCopyContext:     KindContextWrite,
	types.IntentClearContext:    KindContextWrite,
	types.IntentFilterContext:   KindContextWrite,
	types.IntentSortContext:     KindContextWrite,
	types.IntentMergeContext:    KindContextWrite,
	types.IntentLogContext:      KindContextWrite,

	types.IntentVerifyContextCount: KindContextAssertion,
	types.IntentVerifyContextField: KindContextAssertion,
	types.IntentVerifyContextState: KindContextAssertion,

	types.IntentDBQuery:    KindDBQuery,
	types.IntentDBGetValue: KindDBQuery,
	types.IntentDBGetRow:   KindDBQuery,
	types.IntentDBGetRows:  KindDBQuery,
	types.IntentDBCount:    KindDBQuery,
	types.IntentDBExecute:  KindDBQuery,

	types.IntentVerifyDBField: KindDBAssertion,
	types.IntentVerifyDBCount: KindDBAssertion,
	types.IntentVerifyDBExist: KindDBAssertion,

	types.IntentDBConnect:     KindDBControl,
	types.IntentDBDisconnect:  KindDBControl,
	types.IntentDBTransaction: KindDBControl,

	types.IntentMapData:          KindDataMapping,
	types.IntentMapField:         KindDataMapping,
	types.IntentMapDBResult:      KindDataMapping,
	types.IntentCompareAPIDB:     KindDataMapping,
	types.IntentCompareContext:   KindDataMapping,
	types.IntentTransformData:    KindDataMapping,
	types.IntentLoadTestData:     KindDataMapping,
	types.IntentExtractJSONPath:  KindDataMapping,
	types.IntentAPIStoreField:    KindDataMapping,
	types.IntentAPIStoreResponse: KindDataMapping,

	types.IntentAPICall: KindAPICall,

	types.IntentAPISetBaseURL: KindAPIConfig,
	types.IntentAPISetHeader:  KindAPIConfig,
	types.IntentAPIAuth:       KindAPIConfig,

	types.IntentAPIVerifyStatus:      KindAPIAssertion,
	types.IntentAPIVerifyJSON:        KindAPIAssertion,
	types.IntentAPIVerifyHeader:      KindAPIAssertion,
	types.IntentAPIVerifyTime:        KindAPIAssertion,
	types.IntentAPIVerifyBody:        KindAPIAssertion,
	types.IntentAPIVerifySchema:      KindAPIAssertion,
	types.IntentAPIVerifyArrayLength: KindAPIAssertion,

	types.IntentNavigate:         KindUIAction,
	types.IntentReload:           KindUIAction,
	types.IntentNavigateHistory:  KindUIAction,
	types.IntentClick:            KindUIAction,
	types.IntentDoubleClick:      KindUIAction,
	types.IntentRightClick:       KindUIAction,
	types.IntentFill:             KindUIAction,
	types.IntentClearField:       KindUIAction,
	types.IntentSelectOption:     KindUIAction,
	types.IntentSetCheckbox:      KindUIAction,
	types.IntentHover:            KindUIAction,
	types.IntentPressKey:         KindUIAction,
	types.IntentUploadFile:       KindUIAction,
	types.IntentScroll:           KindUIAction,
	types.IntentSwitchFrame:      KindUIAction,
	types.IntentSwitchWindow:     KindUIAction,
	types.IntentHandleDialog:     KindUIAction,
	types.IntentStoreElementText: KindUIAction,
	types.IntentStoreElementAttr: KindUIAction,
	types.IntentScreenshot:       KindUIAction,
	types.IntentDragDrop:         KindUIAction,

	types.IntentVerifyElementText:  KindUIAssertion,
	types.IntentVerifyElementState: KindUIAssertion,
	types.IntentVerifyElementCount: KindUIAssertion,
	types.IntentVerifyElementAttr:  KindUIAssertion,
	types.IntentVerifyElementValue: KindUIAssertion,
	types.IntentVerifyPageTitle:    KindUIAssertion,
	types.IntentVerifyURL:          KindUIAssertion,
	types.IntentVerifyPageText:     KindUIAssertion,
	types.IntentVerifyTextVisible:  KindUIAssertion,
	types.IntentVerifyDialogText:   KindUIAssertion,
	types.IntentVerifyTableCell:    KindUIAssertion,

	types.IntentWaitForElement:  KindWait,
	types.IntentWaitForText:     KindWait,
	types.IntentWaitDuration:    KindWait,
	types.IntentWaitPageLoad:    KindWait,
	types.IntentWaitURL:         KindWait,
	types.IntentWaitNetworkIdle: KindWait,

	types.IntentGenerateValue:  KindVariable,
	types.IntentStoreDate:      KindVariable,
	types.IntentSetVariable:    KindVariable,
	types.IntentVerifyVariable: KindVariable,
	types.IntentConcatenate:    KindVariable,
	types.IntentSetEnvironment: KindVariable,
	types.IntentCalculate:      KindVariable,
}

// required lists the params every rule of an intent always sets.
var required = map[types.Intent][]string{
	types.IntentGetContextField: {types.KeySourceContextVar, types.KeyContextField},
	types.IntentGetContextCount: {types.KeySourceContextVar},
	types.IntentGetContextItem:  {types.KeySourceContextVar, types.KeyItemPosition},

	types.IntentSetContextValue: {types.KeyTargetContextVar},
	types.IntentCopyContext:     {types.KeySourceContextVar, types.KeyTargetContextVar},
	types.IntentFilterContext:   {types.KeySourceContextVar, types.KeyContextField, types.KeyComparisonOp},
	types.IntentSortContext:     {types.KeySourceContextVar, types.KeyContextField},
	types.IntentMergeContext:    {types.KeySourceContextVar, types.KeyOperandRight, types.KeyTargetContextVar},

	types.IntentVerifyContextCount: {types.KeySourceContextVar, types.KeyComparisonOp, types.KeyItemCount},
	types.IntentVerifyContextField: {types.KeySourceContextVar, types.KeyContextField, types.KeyComparisonOp},
	types.IntentVerifyContextState: {types.KeySourceContextVar, types.KeyCondition},

	types.IntentDBQuery:       {types.KeyDBAlias, types.KeyDBQuery},
	types.IntentDBGetValue:    {types.KeyDBAlias, types.KeyDBQuery},
	types.IntentDBGetRow:      {types.KeyDBAlias, types.KeyDBQuery},
	types.IntentDBGetRows:     {types.KeyDBAlias, types.KeyDBQuery},
	types.IntentDBCount:       {types.KeyDBAlias, types.KeyDBQuery},
	types.IntentDBExecute:     {types.KeyDBAlias, types.KeyDBQuery},
	types.IntentVerifyDBField: {types.KeyDBAlias, types.KeyDBQuery, types.KeyDBColumn, types.KeyComparisonOp},
	types.IntentVerifyDBCount: {types.KeyDBAlias, types.KeyDBQuery, types.KeyComparisonOp, types.KeyRowCount},
	types.IntentVerifyDBExist: {types.KeyDBAlias, types.KeyDBQuery},
	types.IntentDBConnect:     {types.KeyDBAlias},
	types.IntentDBTransaction: {types.KeyTxAction},

	types.IntentMapData:          {types.KeyMapName, types.KeySourceContextVar, types.KeyTargetContextVar},
	types.IntentMapField:         {types.KeySourceField, types.KeySourceContextVar, types.KeyTargetField},
	types.IntentMapDBResult:      {types.KeySourceContextVar, types.KeyTargetContextVar},
	types.IntentCompareAPIDB:     {types.KeyDBAlias, types.KeyDBQuery},
	types.IntentCompareContext:   {types.KeySourceContextVar, types.KeyTargetContextVar},
	types.IntentTransformData:    {types.KeySourceContextVar, types.KeyTransform},
	types.IntentLoadTestData:     {types.KeyFileName},
	types.IntentExtractJSONPath:  {types.KeyJSONPath, types.KeySourceContextVar},
	types.IntentAPIStoreField:    {types.KeyJSONPath, types.KeyTargetContextVar},
	types.IntentAPIStoreResponse: {types.KeyTargetContextVar},

	types.IntentAPICall:              {types.KeyHTTPMethod, types.KeyAPIURL},
	types.IntentAPISetBaseURL:        {types.KeyAPIURL},
	types.IntentAPISetHeader:         {types.KeyHeaderName, types.KeyHeaderValue},
	types.IntentAPIAuth:              {types.KeyAuthType, types.KeyAuthParams},
	types.IntentAPIVerifyStatus:      {types.KeyHTTPMethod},
	types.IntentAPIVerifyJSON:        {types.KeyJSONPath},
	types.IntentAPIVerifyHeader:      {types.KeyHeaderName, types.KeyComparisonOp},
	types.IntentAPIVerifyTime:        {types.KeyComparisonOp, types.KeyMaxResponseMs},
	types.IntentAPIVerifyBody:        {types.KeyComparisonOp},
	types.IntentAPIVerifySchema:      {types.KeySchemaName},
	types.IntentAPIVerifyArrayLength: {types.KeyJSONPath, types.KeyComparisonOp, types.KeyItemCount},

	types.IntentNavigate:         {types.KeyURL},
	types.IntentNavigateHistory:  {types.KeyDirection},
	types.IntentSetCheckbox:      {types.KeyElementState},
	types.IntentPressKey:         {types.KeyKey},
	types.IntentUploadFile:       {types.KeyFileName},
	types.IntentHandleDialog:     {types.KeyDialogAction},
	types.IntentStoreElementText: {types.KeyVariableName},
	types.IntentStoreElementAttr: {types.KeyAttributeName, types.KeyVariableName},
	types.IntentDragDrop:         {types.KeyDropTarget},

	types.IntentVerifyElementText:  {types.KeyComparisonOp},
	types.IntentVerifyElementValue: {types.KeyComparisonOp},
	types.IntentVerifyElementAttr:  {types.KeyAttributeName, types.KeyComparisonOp},
	types.IntentVerifyElementCount: {types.KeyComparisonOp, types.KeyItemCount},
	types.IntentVerifyElementState: {types.KeyElementState},
	types.IntentVerifyPageTitle:    {types.KeyComparisonOp},
	types.IntentVerifyURL:          {types.KeyComparisonOp},
	types.IntentVerifyPageText:     {types.KeyComparisonOp},
	types.IntentVerifyDialogText:   {types.KeyComparisonOp},
	types.IntentVerifyTableCell:    {types.KeyComparisonOp, types.KeyRowIndex, types.KeyColumnIndex},

	types.IntentWaitForElement:  {types.KeyCondition},
	types.IntentWaitForText:     {types.KeyCondition},
	types.IntentWaitPageLoad:    {types.KeyCondition},
	types.IntentWaitURL:         {types.KeyComparisonOp},
	types.IntentWaitNetworkIdle: {types.KeyCondition},
	types.IntentWaitDuration:    {types.KeyDurationMs},

	types.IntentGenerateValue:  {types.KeyValueKind, types.KeyVariableName},
	types.IntentStoreDate:      {types.KeyDateKind, types.KeyVariableName},
	types.IntentSetVariable:    {types.KeyVariableName},
	types.IntentVerifyVariable: {types.KeyVariableName, types.KeyComparisonOp},
	types.IntentConcatenate:    {types.KeyVariableName, types.KeyOperandLeft, types.KeyOperandRight},
	types.IntentSetEnvironment: {types.KeyEnvironment},
	types.IntentCalculate:      {types.KeyArithmetic, types.KeyOperandLeft, types.KeyOperandRight, types.KeyVariableName},
}

// KindOf returns the payload kind for in.
func KindOf(in types.Intent) (Kind, bool) {
	k, ok := families[in]
	return k, ok
}

// Decode converts a flat intent into its typed variant.
// Returns ErrUnsupportedIntent for intents outside the vocabulary,
// ErrMissingParam when a required key is absent and ErrUnknownOperator when
// comparisonOp is not a normalized operator name.
func Decode(si types.StepIntent) (Payload, error) {
	kind, ok := families[si.Intent]
	if !ok {
		return nil, fmt.Errorf("intent %q: %w", si.Intent, types.ErrUnsupportedIntent)
	}

	var missing []string
	for _, key := range required[si.Intent] {
		if !si.Params.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("intent %s: %w: %s", si.Intent, types.ErrMissingParam, strings.Join(missing, ", "))
	}

	d := decoder{si: si, p: si.Params}
	base := Base{
		RuleID:    si.RuleID,
		Intent:    si.Intent,
		Category:  si.Category,
		Target:    si.TargetText,
		Modifiers: si.Modifiers,
		Params:    si.Params,
	}

	var out Payload
	switch kind {
	case KindContextRead:
		out = ContextRead{
			Base:     base,
			Source:   d.str(types.KeySourceContextVar),
			Field:    d.str(types.KeyContextField),
			Position: d.integer(types.KeyItemPosition),
			StoreAs:  d.str(types.KeyTargetContextVar),
		}
	case KindContextWrite:
		out = ContextWrite{
			Base:        base,
			Source:      d.str(types.KeySourceContextVar),
			Destination: d.str(types.KeyTargetContextVar),
			Field:       d.str(types.KeyContextField),
			Value:       si.Value,
			Operator:    d.op(),
			SortOrder:   d.str(types.KeySortOrder),
			Other:       d.str(types.KeyOperandRight),
			AllScopes:   d.str(types.KeyScope) == "all",
		}
	case KindContextAssertion:
		count, hasCount := si.Params.Int(types.KeyItemCount)
		out = ContextAssertion{
			Base:      base,
			Source:    d.str(types.KeySourceContextVar),
			Field:     d.str(types.KeyContextField),
			Operator:  d.op(),
			Expected:  si.ExpectedValue,
			Count:     count,
			HasCount:  hasCount,
			Condition: d.str(types.KeyCondition),
		}
	case KindDBQuery:
		out = DBQuery{
			Base:    base,
			Alias:   d.str(types.KeyDBAlias),
			Query:   d.str(types.KeyDBQuery),
			Args:    d.str(types.KeyDBParams),
			Column:  d.str(types.KeyDBColumn),
			StoreAs: d.str(types.KeyTargetContextVar),
		}
	case KindDBAssertion:
		rows, hasRows := si.Params.Int(types.KeyRowCount)
		out = DBAssertion{
			Base:     base,
			Alias:    d.str(types.KeyDBAlias),
			Query:    d.str(types.KeyDBQuery),
			Args:     d.str(types.KeyDBParams),
			Column:   d.str(types.KeyDBColumn),
			Operator: d.op(),
			Expected: si.ExpectedValue,
			RowCount: rows,
			HasCount: hasRows,
		}
	case KindDBControl:
		out = DBControl{
			Base:     base,
			Alias:    d.str(types.KeyDBAlias),
			URL:      d.str(types.KeyURL),
			TxAction: d.str(types.KeyTxAction),
			All:      d.str(types.KeyScope) == "all",
		}
	case KindDataMapping:
		out = DataMapping{
			Base:        base,
			Source:      d.str(types.KeySourceContextVar),
			Destination: d.str(types.KeyTargetContextVar),
			MapName:     d.str(types.KeyMapName),
			SourceField: d.str(types.KeySourceField),
			TargetField: d.str(types.KeyTargetField),
			Transform:   d.str(types.KeyTransform),
			FileName:    d.str(types.KeyFileName),
			SheetName:   d.str(types.KeySheetName),
			JSONPath:    d.str(types.KeyJSONPath),
			Alias:       d.str(types.KeyDBAlias),
			Query:       d.str(types.KeyDBQuery),
			Args:        d.str(types.KeyDBParams),
			MatchKey:    d.str(types.KeyMatchKey),
			Ignore:      splitList(d.str(types.KeyIgnore)),
		}
	case KindAPICall:
		out = APICall{
			Base:    base,
			Method:  d.str(types.KeyHTTPMethod),
			URL:     d.str(types.KeyAPIURL),
			Body:    d.str(types.KeyRequestBody),
			Headers: d.object(types.KeyRequestHeaders),
		}
	case KindAPIConfig:
		out = APIConfig{
			Base:        base,
			BaseURL:     d.str(types.KeyAPIURL),
			HeaderName:  d.str(types.KeyHeaderName),
			HeaderValue: d.str(types.KeyHeaderValue),
			AuthType:    d.str(types.KeyAuthType),
			Auth:        d.object(types.KeyAuthParams),
		}
	case KindAPIAssertion:
		count, hasCount := si.Params.Int(types.KeyItemCount)
		out = APIAssertion{
			Base:        base,
			Operator:    d.op(),
			Expected:    si.ExpectedValue,
			JSONPath:    d.str(types.KeyJSONPath),
			HeaderName:  d.str(types.KeyHeaderName),
			StatusClass: d.str(types.KeyStatusClass),
			SchemaName:  d.str(types.KeySchemaName),
			Condition:   d.str(types.KeyCondition),
			MaxResponse: d.millis(types.KeyMaxResponseMs),
			ItemCount:   count,
			HasCount:    hasCount,
		}
	case KindUIAction:
		out = UIAction{
			Base:          base,
			ElementType:   d.str(types.KeyElementType),
			Index:         d.integer(types.KeyElementIndex),
			Value:         si.Value,
			Key:           d.str(types.KeyKey),
			Direction:     d.str(types.KeyDirection),
			Frame:         d.str(types.KeyFrameName),
			Window:        d.integer(types.KeyWindowIndex),
			DialogAction:  d.str(types.KeyDialogAction),
			FileName:      d.str(types.KeyFileName),
			AttributeName: d.str(types.KeyAttributeName),
			State:         d.str(types.KeyElementState),
			Variable:      d.str(types.KeyVariableName),
			Screenshot:    d.str(types.KeyScreenshot),
			DropTarget:    d.str(types.KeyDropTarget),
			URL:           d.str(types.KeyURL),
			MainFrame:     d.str(types.KeyScope) == "main",
		}
	case KindUIAssertion:
		out = UIAssertion{
			Base:          base,
			ElementType:   d.str(types.KeyElementType),
			AttributeName: d.str(types.KeyAttributeName),
			State:         d.str(types.KeyElementState),
			Operator:      d.op(),
			Expected:      si.ExpectedValue,
			Count:         d.integer(types.KeyItemCount),
			Row:           d.integer(types.KeyRowIndex),
			Column:        d.integer(types.KeyColumnIndex),
		}
	case KindWait:
		out = Wait{
			Base:        base,
			ElementType: d.str(types.KeyElementType),
			Condition:   d.str(types.KeyCondition),
			Operator:    d.op(),
			Expected:    si.ExpectedValue,
			Timeout:     d.millis(types.KeyTimeoutMs),
			Duration:    d.millis(types.KeyDurationMs),
		}
	case KindVariable:
		out = Variable{
			Base:        base,
			Name:        d.str(types.KeyVariableName),
			Value:       si.Value,
			ValueKind:   d.str(types.KeyValueKind),
			Length:      d.integer(types.KeyLength),
			DateKind:    d.str(types.KeyDateKind),
			DateFormat:  d.str(types.KeyDateFormat),
			Environment: d.str(types.KeyEnvironment),
			Arithmetic:  d.str(types.KeyArithmetic),
			Left:        d.str(types.KeyOperandLeft),
			Right:       d.str(types.KeyOperandRight),
			Operator:    d.op(),
			Expected:    si.ExpectedValue,
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return out, nil
}

// decoder reads optional params, keeping the first conversion error.
type decoder struct {
	si  types.StepIntent
	p   types.Params
	err error
}

func (d *decoder) str(key string) string {
	s, _ := d.p.String(key)
	return s
}

func (d *decoder) integer(key string) int64 {
	if !d.p.Has(key) {
		return 0
	}
	n, ok := d.p.Int(key)
	if !ok {
		d.fail(fmt.Errorf("intent %s: param %s is not an integer: %w", d.si.Intent, key, types.ErrCoercionFailed))
	}
	return n
}

func (d *decoder) millis(key string) time.Duration {
	return time.Duration(d.integer(key)) * time.Millisecond
}

func (d *decoder) op() rules.Operator {
	name, ok := d.p.String(types.KeyComparisonOp)
	if !ok {
		return rules.OpUnspecified
	}
	op, err := rules.ParseOperator(name)
	if err != nil {
		d.fail(fmt.Errorf("intent %s: comparisonOp %q: %w", d.si.Intent, name, err))
	}
	return op
}

// object decodes a JSON object param into a string map. Non-string values
// keep their JSON text.
func (d *decoder) object(key string) map[string]string {
	raw := d.str(key)
	if raw == "" {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		d.fail(fmt.Errorf("intent %s: param %s is not a json object: %w", d.si.Intent, key, err))
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		out[k] = string(v)
	}
	return out
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// splitList splits a comma separated literal, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
