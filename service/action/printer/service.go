package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/viant/plexor/model/types"
)

const name = "printer"

// Service prints plan messages to standard output, giving plans a way to
// report progress or surface a final answer.
type Service struct {
	out io.Writer
}

type Input struct {
	Message string `json:"message,omitempty"`
}

// Output echoes the printed message so it lands in the step history.
type Output struct {
	Message string `json:"message,omitempty"`
}

// New creates a new printer service
func New() *Service {
	return &Service{out: os.Stdout}
}

// NewWithWriter creates a printer writing to the supplied writer.
func NewWithWriter(out io.Writer) *Service {
	if out == nil {
		out = os.Stdout
	}
	return &Service{out: out}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "print",
			Description: "Prints the given message to standard output.",
			Args: types.Args{
				{Name: "message", Description: "message to print", Required: true, DataType: "string"},
			},
			Input:  reflect.TypeOf(&Input{}),
			Output: reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "print":
		return s.print, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) print(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	fmt.Fprintln(s.out, input.Message)
	output.Message = input.Message
	return nil
}
