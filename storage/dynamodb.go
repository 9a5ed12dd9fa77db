package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DynamoDBStore is a Store backed by a DynamoDB table whose partition key is
// the string attribute "k". Items also hold the content type ("ct") and the
// body ("b"), so objects must fit in a single item.
type DynamoDBStore struct {
	profile string
	region  string
	table   string

	// Do throttling on our side based on configured RCUs/WCUs so the
	// client doesn't have to retry.
	getLimiter *rate.Limiter
	putLimiter *rate.Limiter

	ddb *dynamodb.DynamoDB
}

func NewDynamoDBStore(profile, region, table string) (*DynamoDBStore, error) {
	s := &DynamoDBStore{
		profile: profile,
		region:  region,
		table:   table,
	}
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(s.region),
		Credentials: credentials.NewSharedCredentials("", s.profile),
	})
	if err != nil {
		return nil, err
	}
	s.ddb = dynamodb.New(sess)
	if err := s.configureLimiters(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DynamoDBStore) configureLimiters() error {
	result, err := s.ddb.DescribeTable(&dynamodb.DescribeTableInput{
		TableName: &s.table,
	})
	if err != nil {
		return err
	}
	var rcus, wcus int64
	if pt := result.Table.ProvisionedThroughput; pt != nil {
		rcus = aws.Int64Value(pt.ReadCapacityUnits)
		wcus = aws.Int64Value(pt.WriteCapacityUnits)
	}
	s.getLimiter = capacityLimiter(rcus)
	s.putLimiter = capacityLimiter(wcus)
	log.WithFields(log.Fields{
		"table": s.table,
		"rcus":  rcus,
		"wcus":  wcus,
	}).Debug("Configured DynamoDB limiters")
	return nil
}

// capacityLimiter turns provisioned capacity units into a request rate. Tables
// in on-demand mode report zero units and are not throttled.
func capacityLimiter(units int64) *rate.Limiter {
	if units <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Duration(1_000_000/units)*time.Microsecond), 1)
}

func (s *DynamoDBStore) Put(ctx context.Context, key string, obj Object) error {
	if err := s.putLimiter.Wait(ctx); err != nil {
		return err
	}
	body := dup(obj.Body)
	if body == nil {
		body = []byte{}
	}
	item := map[string]*dynamodb.AttributeValue{
		"k": {S: aws.String(key)},
		"b": {B: body},
	}
	if obj.ContentType != "" {
		item["ct"] = &dynamodb.AttributeValue{S: aws.String(obj.ContentType)}
	}
	_, err := s.ddb.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	})
	return err
}

func (s *DynamoDBStore) Get(ctx context.Context, key string) (obj Object, err error) {
	if err := s.getLimiter.Wait(ctx); err != nil {
		return Object{}, err
	}
	output, err := s.ddb.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: &s.table,
		Key: map[string]*dynamodb.AttributeValue{
			"k": {S: aws.String(key)},
		},
	})
	if err != nil {
		return Object{}, s.getError(key, err)
	}
	if output.Item == nil {
		return Object{}, fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	if b := output.Item["b"]; b != nil {
		obj.Body = b.B
	}
	if obj.Body == nil {
		obj.Body = []byte{}
	}
	if ct := output.Item["ct"]; ct != nil {
		obj.ContentType = aws.StringValue(ct.S)
	}
	return obj, nil
}

// getError annotates a failed GetItem. A missing table is a configuration
// problem, not a missing key, so it never matches ErrNotFound.
func (s *DynamoDBStore) getError(key string, err error) error {
	if e, ok := err.(awserr.Error); ok && e.Code() == dynamodb.ErrCodeResourceNotFoundException {
		return fmt.Errorf("table %q for %q: %v", s.table, key, e)
	}
	return fmt.Errorf("could not get %.40q: %w", key, err)
}
