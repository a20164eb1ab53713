package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ArithInput is the shared input shape for the arithmetic tools.
type ArithInput struct {
	A int `json:"a" jsonschema_description:"First integer operand."`
	B int `json:"b" jsonschema_description:"Second integer operand."`
}

var ArithInputSchema = GenerateSchema[ArithInput]()

var AddDefinition = ToolDefinition{
	Name:        "add",
	Description: "Add two integers and return their sum.",
	InputSchema: ArithInputSchema,
	Function:    arith("add", func(a, b int) int { return a + b }),
}

var SubtractDefinition = ToolDefinition{
	Name:        "subtract",
	Description: "Subtract the second integer from the first and return the difference.",
	InputSchema: ArithInputSchema,
	Function:    arith("subtract", func(a, b int) int { return a - b }),
}

var MultiplyDefinition = ToolDefinition{
	Name:        "multiply",
	Description: "Multiply two integers and return the product.",
	InputSchema: ArithInputSchema,
	Function:    arith("multiply", func(a, b int) int { return a * b }),
}

// arith wraps a pure binary integer operation as a tool handler. A payload
// that is not valid JSON or carries non-integer operands is rejected with an
// error rather than coerced.
func arith(name string, op func(a, b int) int) func(json.RawMessage) (string, error) {
	return func(input json.RawMessage) (string, error) {
		var in ArithInput
		if err := json.Unmarshal(input, &in); err != nil {
			return "", fmt.Errorf("%s: invalid input: %w", name, err)
		}
		return strconv.Itoa(op(in.A, in.B)), nil
	}
}
