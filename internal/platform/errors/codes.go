// Package errors provides structured error handling for the deduction engine.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Reference errors
	CodeIngredientUnknown    Code = "INGREDIENT_UNKNOWN"
	CodeEventIndexOutOfRange Code = "EVENT_INDEX_OUT_OF_RANGE"

	// Observation errors
	CodeResultInvalid      Code = "RESULT_INVALID"
	CodeAlignmentInvalid   Code = "ALIGNMENT_INVALID"
	CodeFormulaInvalid     Code = "FORMULA_INVALID"
	CodeSymbolInvalid      Code = "SYMBOL_INVALID"
	CodeMixSameIngredient  Code = "MIX_SAME_INGREDIENT"
	CodeScenarioStepFailed Code = "SCENARIO_STEP_FAILED"
)

// Category groups codes by the kind of caller mistake they report.
type Category string

const (
	CategoryInvalidReference Category = "invalid_reference"
	CategoryInvalidArgument  Category = "invalid_argument"
	CategoryInternal         Category = "internal"
)

// Category maps domain codes to their category.
func (c Code) Category() Category {
	switch c {
	case CodeIngredientUnknown,
		CodeEventIndexOutOfRange:
		return CategoryInvalidReference

	case CodeResultInvalid,
		CodeAlignmentInvalid,
		CodeFormulaInvalid,
		CodeSymbolInvalid,
		CodeMixSameIngredient,
		CodeScenarioStepFailed:
		return CategoryInvalidArgument

	default:
		return CategoryInternal
	}
}
