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
	defaultInvoicesTableName = "invoices"
	invoicesCustomerIDIndex  = "customer_id-index"
)

type invoiceItem struct {
	ID               string         `dynamodbav:"id"`
	ReferenceNumber  string         `dynamodbav:"reference_number"`
	CustomerID       string         `dynamodbav:"customer_id"`
	CustomerName     string         `dynamodbav:"customer_name"`
	SourceJobID      string         `dynamodbav:"source_job_id,omitempty"`
	SourceEstimateID string         `dynamodbav:"source_estimate_id,omitempty"`
	LineItems        []lineItemItem `dynamodbav:"line_items"`
	TaxRate          float64        `dynamodbav:"tax_rate"`
	Subtotal         float64        `dynamodbav:"subtotal"`
	TaxAmount        float64        `dynamodbav:"tax_amount"`
	TotalAmount      float64        `dynamodbav:"total_amount"`
	Status           string         `dynamodbav:"status"`
	PaidAmount       float64        `dynamodbav:"paid_amount"`
	PaymentDate      string         `dynamodbav:"payment_date,omitempty"`
	DueDate          string         `dynamodbav:"due_date"`
	CreatedAt        string         `dynamodbav:"created_at"`
	UpdatedAt        string         `dynamodbav:"updated_at"`
}

// InvoiceDynamoRepository persists Invoice entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: customer_id-index (PK: customer_id)

type InvoiceDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb *dynamodb.Client) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("INVOICES_TABLE", defaultInvoicesTableName),
	}
}

func (r *InvoiceDynamoRepository) Create(ctx context.Context, i entities.Invoice) (entities.Invoice, error) {
	it := toInvoiceItem(i)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Invoice{}, err
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
		return entities.Invoice{}, err
	}
	return i, nil
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Item) == 0 {
		return entities.Invoice{}, nil
	}

	var it invoiceItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it), nil
}

func (r *InvoiceDynamoRepository) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Invoice, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(invoicesCustomerIDIndex),
		KeyConditionExpression: aws.String("customer_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: customerID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Invoice, 0, len(out.Items))
	for _, raw := range out.Items {
		var it invoiceItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromInvoiceItem(it))
	}
	return items, nil
}

func (r *InvoiceDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.InvoiceStatus) (entities.Invoice, error) {
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
		return expr, vals, names
	})
}

func (r *InvoiceDynamoRepository) RecordPayment(ctx context.Context, id string, paidAmount float64, status entities.InvoiceStatus, paymentDate time.Time) (entities.Invoice, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #paid_amount = :paid_amount, #status = :status, #payment_date = :payment_date, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":paid_amount":  &types.AttributeValueMemberN{Value: floatToString(paidAmount)},
			":status":       &types.AttributeValueMemberS{Value: string(status)},
			":payment_date": &types.AttributeValueMemberS{Value: paymentDate.UTC().Format(time.RFC3339Nano)},
			":updated_at":   &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#paid_amount":  "paid_amount",
			"#status":       "status",
			"#payment_date": "payment_date",
			"#updated_at":   "updated_at",
		}
		return expr, vals, names
	})
}

func (r *InvoiceDynamoRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return countCreatedSince(ctx, r.ddb, r.tableName, since)
}

func (r *InvoiceDynamoRepository) update(
	ctx context.Context,
	id string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Invoice, error) {
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
			return entities.Invoice{}, nil
		}
		return entities.Invoice{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Invoice{}, nil
	}
	var it invoiceItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it), nil
}

func toInvoiceItem(i entities.Invoice) invoiceItem {
	it := invoiceItem{
		ID:               i.ID,
		ReferenceNumber:  i.ReferenceNumber,
		CustomerID:       i.CustomerID,
		CustomerName:     i.CustomerName,
		SourceJobID:      i.SourceJobID,
		SourceEstimateID: i.SourceEstimateID,
		LineItems:        toLineItemItems(i.LineItems),
		TaxRate:          i.TaxRate,
		Subtotal:         i.Subtotal,
		TaxAmount:        i.TaxAmount,
		TotalAmount:      i.TotalAmount,
		Status:           string(i.Status),
		PaidAmount:       i.PaidAmount,
		DueDate:          i.DueDate.UTC().Format(time.RFC3339Nano),
		CreatedAt:        i.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:        i.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if i.PaymentDate != nil {
		it.PaymentDate = i.PaymentDate.UTC().Format(time.RFC3339Nano)
	}
	return it
}

func fromInvoiceItem(it invoiceItem) entities.Invoice {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	dueDate, _ := time.Parse(time.RFC3339Nano, it.DueDate)
	i := entities.Invoice{
		ID:               it.ID,
		ReferenceNumber:  it.ReferenceNumber,
		CustomerID:       it.CustomerID,
		CustomerName:     it.CustomerName,
		SourceJobID:      it.SourceJobID,
		SourceEstimateID: it.SourceEstimateID,
		LineItems:        fromLineItemItems(it.LineItems),
		TaxRate:          it.TaxRate,
		Subtotal:         it.Subtotal,
		TaxAmount:        it.TaxAmount,
		TotalAmount:      it.TotalAmount,
		Status:           entities.InvoiceStatus(it.Status),
		PaidAmount:       it.PaidAmount,
		DueDate:          dueDate,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
	if it.PaymentDate != "" {
		if d, err := time.Parse(time.RFC3339Nano, it.PaymentDate); err == nil {
			i.PaymentDate = &d
		}
	}
	return i
}
