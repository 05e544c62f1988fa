package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (m *mockSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, in)
	return &sqs.SendMessageOutput{MessageId: sdkaws.String("msg-1")}, nil
}

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestPublisher_Publish(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.local/queue")

	id, err := p.Publish(context.Background(), map[string]string{"order_id": "o1"}, map[string]string{
		"order_id":       "o1",
		"correlation_id": "",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	require.Len(t, mock.inputs, 1)

	in := mock.inputs[0]
	assert.Equal(t, "https://sqs.local/queue", *in.QueueUrl)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(*in.MessageBody), &body))
	assert.Equal(t, "o1", body["order_id"])

	assert.Contains(t, in.MessageAttributes, "order_id")
	assert.NotContains(t, in.MessageAttributes, "correlation_id")
}

func TestPublisher_PublishError(t *testing.T) {
	sendErr := errors.New("boom")
	p := NewPublisher(&mockSQS{err: sendErr}, "q")

	_, err := p.Publish(context.Background(), "x", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
}

func TestMetricsPublisher_Put(t *testing.T) {
	mock := &mockCloudWatch{}
	m := NewMetricsPublisher(mock, "OrderInsights")

	err := m.Put(context.Background(), map[string]string{"TimeRange": "week"}, map[string]float64{
		"TotalSales":  250,
		"TotalOrders": 2,
	})
	require.NoError(t, err)
	require.Len(t, mock.inputs, 1)

	in := mock.inputs[0]
	assert.Equal(t, "OrderInsights", *in.Namespace)
	require.Len(t, in.MetricData, 2)
	assert.Equal(t, "TotalOrders", *in.MetricData[0].MetricName)
	assert.Equal(t, "TotalSales", *in.MetricData[1].MetricName)
	assert.Equal(t, 250.0, *in.MetricData[1].Value)
	assert.Equal(t, "week", *in.MetricData[0].Dimensions[0].Value)
}

func TestMetricsPublisher_PutNothing(t *testing.T) {
	mock := &mockCloudWatch{}
	m := NewMetricsPublisher(mock, "OrderInsights")

	require.NoError(t, m.Put(context.Background(), nil, nil))
	assert.Empty(t, mock.inputs)
}
