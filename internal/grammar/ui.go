package grammar

import (
	"strings"

	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// elementKind is the optional trailing element noun, as in "click 'Save' button".
const elementKind = `(?: (button|link|element|checkbox|icon|tab|menu item|field|input|textbox|textarea|dropdown|list|label|image|radio button))?`

// elementResult builds the result for a step whose subject is the element
// literal in group target, with the optional element noun in group kind.
func elementResult(m *rules.Match, target, kind int) (types.ExtractionResult, types.Params) {
	p := types.Params{}
	setLower(p, types.KeyElementType, m, kind)
	return types.ExtractionResult{TargetText: m.Literal(target), Params: p}, p
}

// uiRules covers browser navigation and element interaction.
func uiRules() []rules.Rule {
	return []rules.Rule{
		{
			ID:       "ui-navigate",
			Pattern:  `^(?:navigate to|go to|open|visit) (?:the )?(?:page |url )?{q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentNavigate,
			Priority: 101,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				url := m.Literal(1)
				return types.ExtractionResult{TargetText: url, Params: types.Params{types.KeyURL: url}}, nil
			},
			Examples: []string{
				"Navigate to 'https://shop.example.com'",
				"Go to the page '/login'",
				"Open 'https://example.com/admin'",
			},
		},
		{
			ID:       "ui-reload",
			Pattern:  `^(?:reload|refresh) (?:the )?page$`,
			Category: types.CategoryAction,
			Intent:   types.IntentReload,
			Priority: 104,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				return types.ExtractionResult{Params: types.Params{}}, nil
			},
			Examples: []string{"Reload the page", "Refresh page"},
		},
		{
			ID:       "ui-history",
			Pattern:  `^go (back|forward)(?: in (?:the )?(?:browser )?history)?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentNavigateHistory,
			Priority: 106,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				dir := m.Lower(1)
				return types.ExtractionResult{TargetText: dir, Params: types.Params{types.KeyDirection: dir}}, nil
			},
			Examples: []string{"Go back", "Go forward in browser history"},
		},
		{
			ID:       "ui-double-click",
			Pattern:  `^double[- ]click (?:on )?(?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentDoubleClick,
			Priority: 110,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := elementResult(m, 1, 2)
				return res, nil
			},
			Examples: []string{"Double-click on 'row-42'", "Double click the 'Title' label"},
		},
		{
			ID:       "ui-right-click",
			Pattern:  `^right[- ]click (?:on )?(?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentRightClick,
			Priority: 112,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := elementResult(m, 1, 2)
				return res, nil
			},
			Examples: []string{"Right-click on 'file.txt'", "Right click the 'Inbox' tab"},
		},
		{
			ID:       "ui-click-nth",
			Pattern:  `^click (?:on )?(?:the )?` + rules.OrdinalPattern + ` {q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentClick,
			Priority: 114,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				idx, err := rules.ParseOrdinal(m.Group(1))
				if err != nil {
					return types.ExtractionResult{}, err
				}
				res, p := elementResult(m, 2, 3)
				p[types.KeyElementIndex] = idx
				return res, nil
			},
			Examples: []string{"Click the second 'Add to cart' button", "Click on the last 'Delete' link"},
		},
		{
			ID:       "ui-click",
			Pattern:  `^click (?:on )?(?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentClick,
			Priority: 116,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := elementResult(m, 1, 2)
				return res, nil
			},
			Examples: []string{"Click 'Submit'", "Click on the 'Login' button", "Click the 'Terms' checkbox"},
		},
		{
			ID:       "ui-fill-into",
			Pattern:  `^(?:fill|enter|type) {q} (?:in|into) (?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentFill,
			Priority: 120,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := elementResult(m, 2, 3)
				res.Value = m.Literal(1)
				return res, nil
			},
			Examples: []string{"Enter 'alice@example.com' into the 'Email' field", "Type 'hello' in 'search'"},
		},
		{
			ID:       "ui-fill-with",
			Pattern:  `^fill (?:in )?(?:the )?{q}` + elementKind + ` with {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentFill,
			Priority: 121,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := elementResult(m, 1, 2)
				res.Value = m.Literal(3)
				return res, nil
			},
			Examples: []string{"Fill 'username' with 'alice'", "Fill in the 'Password' field with 's3cret'"},
		},
		{
			ID:       "ui-clear",
			Pattern:  `^clear (?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentClearField,
			Priority: 124,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := elementResult(m, 1, 2)
				return res, nil
			},
			Examples: []string{"Clear the 'Search' field"},
		},
		{
			ID:       "ui-select",
			Pattern:  `^select {q} (?:from|in) (?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSelectOption,
			Priority: 127,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := elementResult(m, 2, 3)
				res.Value = m.Literal(1)
				return res, nil
			},
			Examples: []string{"Select 'Canada' from the 'Country' dropdown"},
		},
		{
			ID:       "ui-checkbox",
			Pattern:  `^(check|uncheck|tick|untick) (?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSetCheckbox,
			Priority: 130,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := elementResult(m, 2, 3)
				state := "checked"
				if strings.HasPrefix(m.Lower(1), "un") {
					state = "unchecked"
				}
				p[types.KeyElementState] = state
				return res, nil
			},
			Examples: []string{"Check the 'Remember me' checkbox", "Uncheck 'Newsletter'"},
		},
		{
			ID:       "ui-hover",
			Pattern:  `^(?:hover over|hover on|mouse over) (?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentHover,
			Priority: 133,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := elementResult(m, 1, 2)
				return res, nil
			},
			Examples: []string{"Hover over the 'Account' icon"},
		},
		{
			ID:       "ui-press-key-literal",
			Pattern:  `^press (?:the )?key {q}(?: (?:in|on) (?:the )?{q})?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentPressKey,
			Priority: 136,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				key := m.Literal(1)
				p := types.Params{types.KeyKey: key}
				target, _ := m.OptLiteral(2)
				return types.ExtractionResult{TargetText: target, Value: key, Params: p}, nil
			},
			Examples: []string{"Press key 'Control+A'", "Press the key 'Shift+Tab' in the 'editor'"},
		},
		{
			ID:       "ui-press-key",
			Pattern:  `^press (?:the )?(\w+) key(?: (?:in|on) (?:the )?{q})?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentPressKey,
			Priority: 137,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				key := m.Lower(1)
				p := types.Params{types.KeyKey: key}
				target, _ := m.OptLiteral(2)
				return types.ExtractionResult{TargetText: target, Value: key, Params: p}, nil
			},
			Examples: []string{"Press the Enter key", "Press Escape key", "Press the Tab key in the 'search'"},
		},
		{
			ID:       "ui-upload",
			Pattern:  `^upload (?:the )?(?:file )?{q} (?:to|into|using) (?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentUploadFile,
			Priority: 140,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := elementResult(m, 2, 3)
				p[types.KeyFileName] = m.Literal(1)
				return res, nil
			},
			Examples: []string{"Upload file 'avatar.png' to the 'Profile picture' input"},
		},
		{
			ID:       "ui-scroll-to",
			Pattern:  `^scroll to (?:the )?{q}` + elementKind + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentScroll,
			Priority: 143,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := elementResult(m, 1, 2)
				return res, nil
			},
			Examples: []string{"Scroll to the 'Footer' element"},
		},
		{
			ID:       "ui-scroll",
			Pattern:  `^scroll (up|down|to (?:the )?top|to (?:the )?bottom)(?: of (?:the )?page)?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentScroll,
			Priority: 144,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				fields := strings.Fields(m.Lower(1))
				dir := fields[len(fields)-1]
				return types.ExtractionResult{TargetText: dir, Params: types.Params{types.KeyDirection: dir}}, nil
			},
			Examples: []string{"Scroll down", "Scroll to the bottom of the page"},
		},
		{
			ID:       "ui-switch-frame",
			Pattern:  `^switch to (?:the )?i?frame {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSwitchFrame,
			Priority: 147,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(1)
				return types.ExtractionResult{TargetText: name, Params: types.Params{types.KeyFrameName: name}}, nil
			},
			Examples: []string{"Switch to frame 'payment'", "Switch to the iframe 'checkout'"},
		},
		{
			ID:       "ui-switch-main",
			Pattern:  `^switch to (?:the )?(?:main|default) (?:content|frame|page)$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSwitchFrame,
			Priority: 148,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				return types.ExtractionResult{Params: types.Params{types.KeyScope: "main"}}, nil
			},
			Examples: []string{"Switch to the main content", "Switch to default frame"},
		},
		{
			ID:       "ui-switch-window",
			Pattern:  `^switch to (?:the )?` + rules.OrdinalPattern + ` (?:window|tab)$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSwitchWindow,
			Priority: 150,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				idx, err := rules.ParseOrdinal(m.Group(1))
				if err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: m.Lower(1), Params: types.Params{types.KeyWindowIndex: idx}}, nil
			},
			Examples: []string{"Switch to the second window", "Switch to last tab"},
		},
		{
			ID:       "ui-switch-window-named",
			Pattern:  `^switch to (?:the )?(new|original|previous|next) (?:window|tab)$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSwitchWindow,
			Priority: 151,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				dir := m.Lower(1)
				return types.ExtractionResult{TargetText: dir, Params: types.Params{types.KeyDirection: dir}}, nil
			},
			Examples: []string{"Switch to the new tab", "Switch to original window"},
		},
		{
			ID:       "ui-dialog",
			Pattern:  `^(accept|dismiss|cancel) (?:the )?(?:alert|dialog|confirmation|confirm|prompt)(?: with {q})?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentHandleDialog,
			Priority: 154,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				action := m.Lower(1)
				if action == "cancel" {
					action = "dismiss"
				}
				res := types.ExtractionResult{TargetText: action, Params: types.Params{types.KeyDialogAction: action}}
				if v, ok := m.OptLiteral(2); ok {
					res.Value = v
				}
				return res, nil
			},
			Examples: []string{"Accept the alert", "Dismiss dialog", "Accept the prompt with 'yes'"},
		},
		{
			ID:       "ui-store-text",
			Pattern:  `^store (?:the )?text of (?:the )?{q}` + elementKind + ` as {q}$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentStoreElementText,
			Priority: 157,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := elementResult(m, 1, 2)
				p[types.KeyVariableName] = m.Literal(3)
				return res, nil
			},
			Examples: []string{"Store the text of the 'Order number' label as 'orderNo'"},
		},
		{
			ID:       "ui-store-attribute",
			Pattern:  `^store (?:the )?(?:attribute )?{q} (?:attribute )?of (?:the )?{q}` + elementKind + ` as {q}$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentStoreElementAttr,
			Priority: 159,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := elementResult(m, 2, 3)
				p[types.KeyAttributeName] = m.Literal(1)
				p[types.KeyVariableName] = m.Literal(4)
				return res, nil
			},
			Examples: []string{"Store the 'href' attribute of the 'Docs' link as 'docsUrl'"},
		},
		{
			ID:       "ui-screenshot",
			Pattern:  `^take (?:a )?screenshot(?: (?:named|as) {q})?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentScreenshot,
			Priority: 162,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				p := types.Params{}
				setOpt(p, types.KeyScreenshot, m, 1)
				return types.ExtractionResult{Params: p}, nil
			},
			Examples: []string{"Take a screenshot", "Take screenshot named 'checkout-step'"},
		},
		{
			ID:       "ui-drag-drop",
			Pattern:  `^drag (?:the )?{q} (?:to|onto) (?:the )?{q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentDragDrop,
			Priority: 165,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				return types.ExtractionResult{TargetText: src, Params: types.Params{types.KeyDropTarget: m.Literal(2)}}, nil
			},
			Examples: []string{"Drag 'Task 1' to 'Done'", "Drag the 'card' onto the 'trash'"},
		},
	}
}
