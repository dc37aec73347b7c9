package compiler

import "fmt"

type SemanticError struct {
	Message string
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("💥 SemanticError: %s", e.Message)
}

type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}

// GenerationError reports an unresolved
// label at finalisation, or a stack-depth estimate that failed to
// converge across a loop's back-edge.
type GenerationError struct {
	Message string
}

func (e GenerationError) Error() string {
	return fmt.Sprintf("💥 GenerationError: %s", e.Message)
}
