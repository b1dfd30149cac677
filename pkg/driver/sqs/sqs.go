package sqs

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/pixelvide/postcli/pkg/sendlog"
)

// API is the part of the SQS client the mirror uses
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Mirror publishes each send log row as a JSON message
type Mirror struct {
	client   API
	queueUrl string
}

// NewMirror creates an SQS mirror
func NewMirror(client API, queueUrl string) (*Mirror, error) {
	if queueUrl == "" {
		return nil, errors.New("SQS_QUEUE_URL is required for the sqs mirror")
	}
	return &Mirror{client: client, queueUrl: queueUrl}, nil
}

// Push sends the row to the queue. Status and campaign key travel as message attributes
// so consumers can filter without decoding the body.
func (m *Mirror) Push(ctx context.Context, row sendlog.Row) error {
	body, err := json.Marshal(row)
	if err != nil {
		return err
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(m.queueUrl),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"status": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(row.Status)),
			},
			"run_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(nonEmpty(row.RunID)),
			},
		},
	}

	_, err = m.client.SendMessage(ctx, input)
	return err
}

// SQS rejects empty string attribute values
func nonEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
