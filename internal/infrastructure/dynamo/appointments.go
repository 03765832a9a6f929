package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/medbook-api/internal/domain"
)

// AppointmentRepo provides typed DynamoDB operations for the appointments table.
type AppointmentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAppointmentRepo(client *dynamodb.Client, tableName string) *AppointmentRepo {
	return &AppointmentRepo{client: client, tableName: tableName}
}

func (r *AppointmentRepo) Put(ctx context.Context, a *domain.Appointment) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal appointment: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AppointmentRepo) Get(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("appointment_id", appointmentID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("appointment not found: %w", domain.ErrNotFound)
	}
	var a domain.Appointment
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindInWindow returns the doctor's appointments whose normalized date is
// exactly equal to date and whose normalized time falls within [from, to],
// inclusive on both ends. Date and time are two separate stored attributes;
// they are deliberately never collapsed into one datetime, so two requests
// naming the same calendar day always compare equal.
func (r *AppointmentRepo) FindInWindow(ctx context.Context, doctorID string, date, from, to time.Time) ([]domain.Appointment, error) {
	dateAV, err := attributevalue.Marshal(date)
	if err != nil {
		return nil, err
	}
	fromAV, err := attributevalue.Marshal(from)
	if err != nil {
		return nil, err
	}
	toAV, err := attributevalue.Marshal(to)
	if err != nil {
		return nil, err
	}
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("doctor_id-index"),
		KeyConditionExpression: aws.String("doctor_id = :doc"),
		FilterExpression:       aws.String("#d = :date AND #t BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{
			"#d": "date",
			"#t": "time",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":doc":  &types.AttributeValueMemberS{Value: doctorID},
			":date": dateAV,
			":from": fromAV,
			":to":   toAV,
		},
	})
	if err != nil {
		return nil, err
	}
	var appointments []domain.Appointment
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *AppointmentRepo) ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	return r.queryIndex(ctx, "user_id-index", "user_id", userID)
}

func (r *AppointmentRepo) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	return r.queryIndex(ctx, "doctor_id-index", "doctor_id", doctorID)
}

func (r *AppointmentRepo) Update(ctx context.Context, appointmentID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("appointment_id", appointmentID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *AppointmentRepo) queryIndex(ctx context.Context, index, attr, value string) ([]domain.Appointment, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String(fmt.Sprintf("%s = :v", attr)),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
	})
	if err != nil {
		return nil, err
	}
	var appointments []domain.Appointment
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}
