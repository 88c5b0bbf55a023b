package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/vegarsti/reader"
)

const DefaultTable = "Fragments"

// item is the stored form of a recognition. Fragments hold the JSON encoding
// of []reader.Fragment.
type item struct {
	Checksum  string
	Fragments []byte
	Timestamp string
}

// Cache stores recognized fragments in a DynamoDB table keyed by checksum.
type Cache struct {
	Client dynamodbiface.DynamoDBAPI
	Table  string
}

func New(sess *session.Session, table string) *Cache {
	if table == "" {
		table = DefaultTable
	}
	return &Cache{Client: dynamodb.New(sess), Table: table}
}

// CreateTable creates the table. A table that already exists is not an error.
func (c *Cache) CreateTable(ctx context.Context) error {
	input := &dynamodb.CreateTableInput{
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{
				AttributeName: aws.String("Checksum"),
				AttributeType: aws.String(dynamodb.ScalarAttributeTypeS),
			},
		},
		KeySchema: []*dynamodb.KeySchemaElement{
			{
				AttributeName: aws.String("Checksum"),
				KeyType:       aws.String(dynamodb.KeyTypeHash),
			},
		},
		TableName:   aws.String(c.Table),
		BillingMode: aws.String(dynamodb.BillingModePayPerRequest),
	}
	if _, err := c.Client.CreateTableWithContext(ctx, input); err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == dynamodb.ErrCodeResourceInUseException {
			return nil
		}
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (c *Cache) PutFragments(ctx context.Context, checksum string, fragments []reader.Fragment) error {
	fragmentsJSON, err := json.Marshal(fragments)
	if err != nil {
		return fmt.Errorf("marshal fragments: %w", err)
	}
	av, err := dynamodbattribute.MarshalMap(item{
		Checksum:  checksum,
		Fragments: fragmentsJSON,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	putInput := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(c.Table),
	}
	if _, err := c.Client.PutItemWithContext(ctx, putInput); err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// GetFragments returns nil fragments and no error when nothing is stored for checksum.
func (c *Cache) GetFragments(ctx context.Context, checksum string) ([]reader.Fragment, error) {
	getInput := &dynamodb.GetItemInput{
		Key: map[string]*dynamodb.AttributeValue{
			"Checksum": {S: aws.String(checksum)},
		},
		ProjectionExpression: aws.String("Checksum,Fragments"),
		TableName:            aws.String(c.Table),
	}
	output, err := c.Client.GetItemWithContext(ctx, getInput)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if output == nil || len(output.Item) == 0 {
		return nil, nil
	}
	var stored item
	if err := dynamodbattribute.UnmarshalMap(output.Item, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	if stored.Fragments == nil {
		return nil, nil
	}
	fragments := make([]reader.Fragment, 0)
	if err := json.Unmarshal(stored.Fragments, &fragments); err != nil {
		return nil, fmt.Errorf("unmarshal fragments: %w", err)
	}
	return fragments, nil
}
