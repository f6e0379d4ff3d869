package repository

import (
	"fixflow_crm/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type lineItemItem struct {
	ID          string  `dynamodbav:"id"`
	Description string  `dynamodbav:"description"`
	Quantity    float64 `dynamodbav:"quantity"`
	UnitPrice   float64 `dynamodbav:"unit_price"`
	Total       float64 `dynamodbav:"total"`
}

func toLineItemItems(items []entities.LineItem) []lineItemItem {
	out := make([]lineItemItem, len(items))
	for i, it := range items {
		out[i] = lineItemItem{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}
	return out
}

func fromLineItemItems(items []lineItemItem) []entities.LineItem {
	out := make([]entities.LineItem, len(items))
	for i, it := range items {
		out[i] = entities.LineItem{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}
	return out
}

func marshalLineItems(items []entities.LineItem) (types.AttributeValue, error) {
	return attributevalue.Marshal(toLineItemItems(items))
}
