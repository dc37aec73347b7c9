// error.go defines the semantic analyser's error taxonomy, following the
// same {Line, Column, Message} shape and emoji-prefixed Error() string as
// parser.SyntaxError.
package semantic

import "fmt"

// ResolutionError reports an identifier, function, or environment variable
// that could not be resolved against the scope tree or function table.
type ResolutionError struct {
	Line    int32
	Column  int
	Message string
}

func CreateResolutionError(line int32, column int, message string) ResolutionError {
	return ResolutionError{Line: line, Column: column, Message: message}
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("💥 Barracuda Resolution error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}

// TypeError reports a typing-rule violation: a mismatched operand, a bad
// assignment, a wrong return type, and so on.
type TypeError struct {
	Line    int32
	Column  int
	Message string
}

func CreateTypeError(line int32, column int, message string) TypeError {
	return TypeError{Line: line, Column: column, Message: message}
}

func (e TypeError) Error() string {
	return fmt.Sprintf("💥 Barracuda Type error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}

// QualifierError reports an attempt to assign through a const-qualified
// storage location.
type QualifierError struct {
	Line    int32
	Column  int
	Message string
}

func CreateQualifierError(line int32, column int, message string) QualifierError {
	return QualifierError{Line: line, Column: column, Message: message}
}

func (e QualifierError) Error() string {
	return fmt.Sprintf("💥 Barracuda Qualifier error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}

// OverloadError reports a call whose arguments match zero or more than one
// overload of the named function.
type OverloadError struct {
	Line    int32
	Column  int
	Message string
}

func CreateOverloadError(line int32, column int, message string) OverloadError {
	return OverloadError{Line: line, Column: column, Message: message}
}

func (e OverloadError) Error() string {
	return fmt.Sprintf("💥 Barracuda Overload error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
