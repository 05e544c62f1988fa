package aws

import (
	"context"
	"fmt"
	"sort"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsPublisher writes gauge values to one CloudWatch namespace.
type MetricsPublisher struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

func NewMetricsPublisher(cw CloudWatchAPI, namespace string) *MetricsPublisher {
	return &MetricsPublisher{
		CloudWatch: cw,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// Put sends values as a single PutMetricData call, every datum carrying the
// same dimensions. Metric names are sent in sorted order.
func (m *MetricsPublisher) Put(ctx context.Context, dimensions map[string]string, values map[string]float64) error {
	if len(values) == 0 {
		return nil
	}

	dims := make([]cwtypes.Dimension, 0, len(dimensions))
	for _, k := range sortedKeys(dimensions) {
		dims = append(dims, cwtypes.Dimension{
			Name:  sdkaws.String(k),
			Value: sdkaws.String(dimensions[k]),
		})
	}

	ts := m.nowFunc()
	data := make([]cwtypes.MetricDatum, 0, len(values))
	for _, name := range sortedKeys(values) {
		data = append(data, cwtypes.MetricDatum{
			MetricName: sdkaws.String(name),
			Dimensions: dims,
			Timestamp:  sdkaws.Time(ts),
			Value:      sdkaws.Float64(values[name]),
			Unit:       cwtypes.StandardUnitNone,
		})
	}

	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(m.Namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
