package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/MrKriegler/auto-insurance/internal/core"
)

type PolicyItem struct {
	ID          string   `dynamodbav:"id"`
	Number      string   `dynamodbav:"number"`
	QuotationID string   `dynamodbav:"quotation_id"`
	RenewedFrom string   `dynamodbav:"renewed_from"`
	StartDate   string   `dynamodbav:"start_date"`
	EndDate     string   `dynamodbav:"end_date"`
	Status      string   `dynamodbav:"status"`
	Notes       []string `dynamodbav:"notes"`
	IssuedAt    string   `dynamodbav:"issued_at"`
	Version     int64    `dynamodbav:"version"`
}

func (i PolicyItem) ToCore() (core.Policy, error) {
	startDate, err := time.Parse(time.RFC3339, i.StartDate)
	if err != nil {
		return core.Policy{}, fmt.Errorf("parse start_date: %w", err)
	}
	endDate, err := time.Parse(time.RFC3339, i.EndDate)
	if err != nil {
		return core.Policy{}, fmt.Errorf("parse end_date: %w", err)
	}
	issuedAt, err := time.Parse(time.RFC3339, i.IssuedAt)
	if err != nil {
		return core.Policy{}, fmt.Errorf("parse issued_at: %w", err)
	}

	return core.Policy{
		ID:          i.ID,
		Number:      i.Number,
		QuotationID: i.QuotationID,
		RenewedFrom: i.RenewedFrom,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      core.PolicyStatus(i.Status),
		Notes:       i.Notes,
		IssuedAt:    issuedAt,
		Version:     i.Version,
	}, nil
}

func policyItemFromCore(p core.Policy) PolicyItem {
	return PolicyItem{
		ID:          p.ID,
		Number:      p.Number,
		QuotationID: p.QuotationID,
		RenewedFrom: p.RenewedFrom,
		StartDate:   p.StartDate.UTC().Format(time.RFC3339),
		EndDate:     p.EndDate.UTC().Format(time.RFC3339),
		Status:      string(p.Status),
		Notes:       p.Notes,
		IssuedAt:    p.IssuedAt.UTC().Format(time.RFC3339),
		Version:     p.Version,
	}
}

type PolicyRepo struct {
	client *dynamodb.Client
}

func NewPolicyRepo(client *dynamodb.Client) *PolicyRepo {
	return &PolicyRepo{client: client}
}

// issuanceGuardID is the key of the marker item that makes one
// (quotation_id, renewed_from) pair win under concurrent issuance. Guard
// items have no "number" attribute, which is how reads skip them.
func issuanceGuardID(quotationID, renewedFrom string) string {
	return fmt.Sprintf("issuance#%s#%s", quotationID, renewedFrom)
}

func numberGuardID(number string) string {
	return fmt.Sprintf("number#%s", number)
}

// Create writes the policy together with two guard items in a single
// transaction. If either guard already exists the whole write fails and the
// caller gets ErrPolicyExists.
func (r *PolicyRepo) Create(ctx context.Context, p core.Policy) error {
	av, err := attributevalue.MarshalMap(policyItemFromCore(p))
	if err != nil {
		return fmt.Errorf("policies.marshal: %w", err)
	}

	guards := []string{
		issuanceGuardID(p.QuotationID, p.RenewedFrom),
		numberGuardID(p.Number),
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(TablePolicies),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}
	for _, guard := range guards {
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(TablePolicies),
				Item: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: guard},
				},
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		})
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		if isTransactionConditionFailed(err) {
			return core.ErrPolicyExists
		}
		return fmt.Errorf("policies.transactWrite: %w", err)
	}
	return nil
}

func (r *PolicyRepo) Get(ctx context.Context, id string) (core.Policy, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TablePolicies),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.Policy{}, fmt.Errorf("policies.getItem: %w", err)
	}
	if out.Item == nil {
		return core.Policy{}, core.ErrPolicyNotFound
	}

	var item PolicyItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Policy{}, fmt.Errorf("policies.unmarshal: %w", err)
	}
	if item.Number == "" {
		// A guard item, not a policy.
		return core.Policy{}, core.ErrPolicyNotFound
	}
	return item.ToCore()
}

func (r *PolicyRepo) GetByNumber(ctx context.Context, number string) (core.Policy, error) {
	return r.queryOne(ctx, GSIPoliciesNumber, expression.Key("number").Equal(expression.Value(number)), nil)
}

func (r *PolicyRepo) GetByQuotationID(ctx context.Context, quotationID string) (core.Policy, error) {
	firstIssuance := expression.Name("renewed_from").Equal(expression.Value(""))
	return r.queryOne(ctx, GSIPoliciesQuotationID,
		expression.Key("quotation_id").Equal(expression.Value(quotationID)),
		&firstIssuance)
}

func (r *PolicyRepo) queryOne(ctx context.Context, index string, key expression.KeyConditionBuilder, filter *expression.ConditionBuilder) (core.Policy, error) {
	builder := expression.NewBuilder().WithKeyCondition(key)
	if filter != nil {
		builder = builder.WithFilter(*filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return core.Policy{}, fmt.Errorf("policies.buildKey: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(TablePolicies),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return core.Policy{}, fmt.Errorf("policies.query %s: %w", index, err)
	}
	if len(out.Items) == 0 {
		return core.Policy{}, core.ErrPolicyNotFound
	}

	var item PolicyItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return core.Policy{}, fmt.Errorf("policies.unmarshal: %w", err)
	}
	return item.ToCore()
}

func (r *PolicyRepo) List(ctx context.Context, filter core.PolicyFilter, limit, offset int) ([]core.Policy, int64, error) {
	// Guard items have no "number" attribute; the filter skips them.
	cond := expression.Name("number").AttributeExists()
	if filter.QuotationID != "" {
		cond = cond.And(expression.Name("quotation_id").Equal(expression.Value(filter.QuotationID)))
	}
	if filter.Status != "" {
		cond = cond.And(expression.Name("status").Equal(expression.Value(string(filter.Status))))
	}
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, 0, fmt.Errorf("policies.buildFilter: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(TablePolicies),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	policies := make([]core.Policy, 0)
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("policies.scan: %w", err)
		}
		for _, raw := range page.Items {
			var item PolicyItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, 0, fmt.Errorf("policies.unmarshal: %w", err)
			}
			p, err := item.ToCore()
			if err != nil {
				return nil, 0, err
			}
			policies = append(policies, p)
		}
	}

	sort.Slice(policies, func(i, j int) bool {
		return policies[i].IssuedAt.After(policies[j].IssuedAt)
	})

	total := int64(len(policies))
	if offset >= len(policies) {
		return []core.Policy{}, total, nil
	}
	policies = policies[offset:]
	if limit > 0 && limit < len(policies) {
		policies = policies[:limit]
	}
	return policies, total, nil
}

func (r *PolicyRepo) Update(ctx context.Context, p core.Policy) error {
	next := p
	next.Version = p.Version + 1

	av, err := attributevalue.MarshalMap(policyItemFromCore(next))
	if err != nil {
		return fmt.Errorf("policies.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(TablePolicies),
		Item:                av,
		ConditionExpression:      aws.String("attribute_exists(id) AND #ver = :v"),
		ExpressionAttributeNames: map[string]string{"#ver": "version"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", p.Version)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			if _, getErr := r.Get(ctx, p.ID); getErr != nil {
				return getErr
			}
			return fmt.Errorf("%w: policy was modified concurrently", core.ErrConflict)
		}
		return fmt.Errorf("policies.putItem: %w", err)
	}
	return nil
}
