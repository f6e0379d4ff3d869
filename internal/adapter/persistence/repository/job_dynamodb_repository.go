package repository

import (
	"context"
	"errors"
	"time"

	"fixflow_crm/internal/domain/entities"
	"fixflow_crm/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultJobsTableName = "jobs"
	jobsCustomerIDIndex  = "customer_id-index"
)

type jobItem struct {
	ID               string `dynamodbav:"id"`
	ReferenceNumber  string `dynamodbav:"reference_number"`
	CustomerID       string `dynamodbav:"customer_id"`
	CustomerName     string `dynamodbav:"customer_name"`
	TechnicianID     string `dynamodbav:"technician_id,omitempty"`
	Description      string `dynamodbav:"description"`
	Status           string `dynamodbav:"status"`
	ScheduledDate    string `dynamodbav:"scheduled_date,omitempty"`
	CompletionDate   string `dynamodbav:"completion_date,omitempty"`
	SourceEstimateID string `dynamodbav:"source_estimate_id,omitempty"`
	InvoiceCreated   bool   `dynamodbav:"invoice_created"`
	CreatedAt        string `dynamodbav:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at"`
}

// JobDynamoRepository persists Job entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: customer_id-index (PK: customer_id)

type JobDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IJobRepository = (*JobDynamoRepository)(nil)

func NewJobDynamoRepository(ddb *dynamodb.Client) *JobDynamoRepository {
	return &JobDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("JOBS_TABLE", defaultJobsTableName),
	}
}

func (r *JobDynamoRepository) Create(ctx context.Context, j entities.Job) (entities.Job, error) {
	it := toJobItem(j)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Job{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Job{}, err
	}
	return j, nil
}

func (r *JobDynamoRepository) GetByID(ctx context.Context, id string) (entities.Job, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Job{}, err
	}
	if len(out.Item) == 0 {
		return entities.Job{}, nil
	}

	var it jobItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Job{}, err
	}
	return fromJobItem(it), nil
}

func (r *JobDynamoRepository) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Job, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(jobsCustomerIDIndex),
		KeyConditionExpression: aws.String("customer_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: customerID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Job, 0, len(out.Items))
	for _, raw := range out.Items {
		var it jobItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromJobItem(it))
	}
	return items, nil
}

// UpdateStatus writes status and, when provided, the completion date in a
// single UpdateItem so the first transition into completed is one write.
func (r *JobDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.JobStatus, completionDate *time.Time) (entities.Job, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		}
		if completionDate != nil {
			expr += ", #completion_date = :completion_date"
			vals[":completion_date"] = &types.AttributeValueMemberS{Value: completionDate.UTC().Format(time.RFC3339Nano)}
			names["#completion_date"] = "completion_date"
		}
		return expr, vals, names
	})
}

func (r *JobDynamoRepository) AssignTechnician(ctx context.Context, id string, technicianID string) (entities.Job, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #technician_id = :technician_id, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":technician_id": &types.AttributeValueMemberS{Value: technicianID},
			":updated_at":    &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#technician_id": "technician_id",
			"#updated_at":    "updated_at",
		}
		return expr, vals, names
	})
}

func (r *JobDynamoRepository) Schedule(ctx context.Context, id string, scheduledDate time.Time) (entities.Job, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #scheduled_date = :scheduled_date, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":scheduled_date": &types.AttributeValueMemberS{Value: scheduledDate.UTC().Format(time.RFC3339Nano)},
			":updated_at":     &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#scheduled_date": "scheduled_date",
			"#updated_at":     "updated_at",
		}
		return expr, vals, names
	})
}

// MarkInvoiceCreated sets the derivation guard flag. The flag only ever
// goes to true; nothing in this repository resets it.
func (r *JobDynamoRepository) MarkInvoiceCreated(ctx context.Context, id string) (entities.Job, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #invoice_created = :invoice_created, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":invoice_created": &types.AttributeValueMemberBOOL{Value: true},
			":updated_at":      &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#invoice_created": "invoice_created",
			"#updated_at":      "updated_at",
		}
		return expr, vals, names
	})
}

func (r *JobDynamoRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return countCreatedSince(ctx, r.ddb, r.tableName, since)
}

func (r *JobDynamoRepository) update(
	ctx context.Context,
	id string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Job, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	updateExpr, values, names := build(now)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Job{}, nil
		}
		return entities.Job{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Job{}, nil
	}
	var it jobItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Job{}, err
	}
	return fromJobItem(it), nil
}

func toJobItem(j entities.Job) jobItem {
	it := jobItem{
		ID:               j.ID,
		ReferenceNumber:  j.ReferenceNumber,
		CustomerID:       j.CustomerID,
		CustomerName:     j.CustomerName,
		TechnicianID:     j.TechnicianID,
		Description:      j.Description,
		Status:           string(j.Status),
		SourceEstimateID: j.SourceEstimateID,
		InvoiceCreated:   j.InvoiceCreated,
		CreatedAt:        j.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:        j.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if j.ScheduledDate != nil {
		it.ScheduledDate = j.ScheduledDate.UTC().Format(time.RFC3339Nano)
	}
	if j.CompletionDate != nil {
		it.CompletionDate = j.CompletionDate.UTC().Format(time.RFC3339Nano)
	}
	return it
}

func fromJobItem(it jobItem) entities.Job {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	j := entities.Job{
		ID:               it.ID,
		ReferenceNumber:  it.ReferenceNumber,
		CustomerID:       it.CustomerID,
		CustomerName:     it.CustomerName,
		TechnicianID:     it.TechnicianID,
		Description:      it.Description,
		Status:           entities.JobStatus(it.Status),
		SourceEstimateID: it.SourceEstimateID,
		InvoiceCreated:   it.InvoiceCreated,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
	if it.ScheduledDate != "" {
		if d, err := time.Parse(time.RFC3339Nano, it.ScheduledDate); err == nil {
			j.ScheduledDate = &d
		}
	}
	if it.CompletionDate != "" {
		if d, err := time.Parse(time.RFC3339Nano, it.CompletionDate); err == nil {
			j.CompletionDate = &d
		}
	}
	return j
}
