package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
)

// Functions invokes named serverless functions with a JSON payload and
// returns their raw JSON result.
type Functions interface {
	Call(ctx context.Context, name string, payload interface{}) (json.RawMessage, error)
}

// LambdaFunctions invokes AWS Lambda functions synchronously.
type LambdaFunctions struct {
	Client *lambda.Lambda

	// Prefix is prepended to every function name, e.g. a stage name.
	Prefix string
}

var _ Functions = (*LambdaFunctions)(nil)

func (lf *LambdaFunctions) Call(
	ctx context.Context,
	name string,
	payload interface{},
) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("calling function `%s`: marshaling payload: %w", name, err)
	}

	rsp, err := lf.Client.InvokeWithContext(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(lf.Prefix + name),
		Payload:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("calling function `%s`: %w", name, err)
	}

	if rsp.FunctionError != nil {
		return nil, &FunctionErr{
			Function: name,
			Type:     aws.StringValue(rsp.FunctionError),
			Payload:  string(rsp.Payload),
		}
	}

	return rsp.Payload, nil
}

// FunctionErr is an error raised by the function itself rather than by the
// transport.
type FunctionErr struct {
	Function string
	Type     string
	Payload  string
}

func (err *FunctionErr) Error() string {
	return fmt.Sprintf(
		"function `%s` failed (%s): %s",
		err.Function,
		err.Type,
		err.Payload,
	)
}
