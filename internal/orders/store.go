package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-order-insights/internal/aws"
)

// Store is a DynamoDB-backed order read model keyed by order_id.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

var _ Source = (*Store)(nil)

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put writes o, replacing any record with the same id.
func (s *Store) Put(ctx context.Context, o OrderRecord) error {
	if o.ID == "" {
		return errors.New("put order: empty id")
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.nowFunc().UTC()
	}
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// ListOrders scans the whole table. Order of the result is the scan order.
func (s *Store) ListOrders(ctx context.Context) ([]OrderRecord, error) {
	out := []OrderRecord{}
	p := dyn.NewScanPaginator(s.client, &dyn.ScanInput{TableName: &s.tableName})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		var batch []OrderRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

// GetOrder fetches an order by id. Returns (nil, nil) if not found.
func (s *Store) GetOrder(ctx context.Context, id string) (*OrderRecord, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       orderKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o OrderRecord
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// MarkDelivered sets status to delivered. A missing order yields (nil, nil),
// matching GetOrder.
func (s *Store) MarkDelivered(ctx context.Context, id string) (*OrderRecord, error) {
	o, err := s.updateStatus(ctx, id, StatusDelivered)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return o, err
}

// UpdateStatus applies the transitions CheckTransition allows.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) (*OrderRecord, error) {
	if err := CheckTransition(status); err != nil {
		return nil, err
	}
	return s.MarkDelivered(ctx, id)
}

func (s *Store) updateStatus(ctx context.Context, id string, status Status) (*OrderRecord, error) {
	now := s.nowFunc().UTC()
	input := &dyn.UpdateItemInput{
		TableName:                &s.tableName,
		Key:                      orderKey(id),
		UpdateExpression:         sdkaws.String("SET #s = :new, updated_at = :ua"),
		ConditionExpression:      sdkaws.String("attribute_exists(order_id)"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberS{Value: string(status)},
			":ua":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	var o OrderRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

func orderKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: id},
	}
}
