package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/go-playground/assert/v2"
	"github.com/vegarsti/reader"
	"github.com/vegarsti/reader/box"
)

// fakeDB keeps items in memory, keyed by checksum.
type fakeDB struct {
	dynamodbiface.DynamoDBAPI
	items     map[string]map[string]*dynamodb.AttributeValue
	createErr error
}

func (db *fakeDB) CreateTableWithContext(ctx aws.Context, input *dynamodb.CreateTableInput, opts ...request.Option) (*dynamodb.CreateTableOutput, error) {
	return &dynamodb.CreateTableOutput{}, db.createErr
}

func (db *fakeDB) PutItemWithContext(ctx aws.Context, input *dynamodb.PutItemInput, opts ...request.Option) (*dynamodb.PutItemOutput, error) {
	db.items[*input.Item["Checksum"].S] = input.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (db *fakeDB) GetItemWithContext(ctx aws.Context, input *dynamodb.GetItemInput, opts ...request.Option) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: db.items[*input.Key["Checksum"].S]}, nil
}

func TestRoundTrip(t *testing.T) {
	c := &Cache{Client: &fakeDB{items: map[string]map[string]*dynamodb.AttributeValue{}}, Table: DefaultTable}
	ctx := context.Background()

	fragments, err := c.GetFragments(ctx, "abc")
	assert.Equal(t, err, nil)
	assert.Equal(t, fragments == nil, true)

	want := []reader.Fragment{
		{Box: box.Box{XLeft: 0.1, XRight: 0.3, YBottom: 0.8, YTop: 0.85}, Text: "Hello"},
	}
	assert.Equal(t, c.PutFragments(ctx, "abc", want), nil)
	fragments, err = c.GetFragments(ctx, "abc")
	assert.Equal(t, err, nil)
	assert.Equal(t, fragments, want)
}

func TestEmptyRecognitionIsCached(t *testing.T) {
	c := &Cache{Client: &fakeDB{items: map[string]map[string]*dynamodb.AttributeValue{}}, Table: DefaultTable}
	ctx := context.Background()
	assert.Equal(t, c.PutFragments(ctx, "blank", []reader.Fragment{}), nil)
	fragments, err := c.GetFragments(ctx, "blank")
	assert.Equal(t, err, nil)
	assert.Equal(t, fragments != nil, true)
	assert.Equal(t, len(fragments), 0)
}

func TestCreateTable(t *testing.T) {
	ctx := context.Background()
	exists := awserr.New(dynamodb.ErrCodeResourceInUseException, "Table already exists: Fragments", nil)
	c := &Cache{Client: &fakeDB{createErr: exists}, Table: DefaultTable}
	assert.Equal(t, c.CreateTable(ctx), nil)

	c = &Cache{Client: &fakeDB{createErr: errors.New("denied")}, Table: DefaultTable}
	assert.NotEqual(t, c.CreateTable(ctx), nil)
}
