package domain

import "time"

// Column names of the raw transaction file.
const (
	ColTransactionID = "TransactionId"
	ColAccountID     = "AccountId"
	ColCustomerID    = "CustomerId"
	ColAmount        = "Amount"
	ColValue         = "Value"
	ColTimestamp     = "TransactionStartTime"
	ColCountryCode   = "CountryCode"
	ColCurrencyCode  = "CurrencyCode"
)

// Derived column names added by the feature builder.
const (
	ColTxnHour     = "txn_hour"
	ColTxnDay      = "txn_day"
	ColTxnMonth    = "txn_month"
	ColTxnYear     = "txn_year"
	ColTotalAmount = "total_amount"
	ColAvgAmount   = "avg_amount"
	ColTxnCount    = "txn_count"
	ColAmountStd   = "amount_std"
	ColHighRisk    = "is_high_risk"
)

// RequiredColumns is the field set every transaction batch must carry.
var RequiredColumns = []string{
	ColTransactionID,
	ColAccountID,
	ColCustomerID,
	ColAmount,
	ColTimestamp,
	ColCountryCode,
	ColCurrencyCode,
}

// IdentifierColumns never feed the classifier.
var IdentifierColumns = []string{
	ColTransactionID,
	ColAccountID,
	ColCustomerID,
	ColTimestamp,
	"BatchId",
	"SubscriptionId",
}

// CustomerAggregate holds the per-customer spending statistics joined back
// onto every transaction row.
type CustomerAggregate struct {
	CustomerID  string  `json:"customer_id"`
	TotalAmount float64 `json:"total_amount"`
	AvgAmount   float64 `json:"avg_amount"`
	TxnCount    int     `json:"txn_count"`
	AmountStd   float64 `json:"amount_std"` // 0 for single-transaction customers
}

// RFM is the recency/frequency/monetary summary of one customer relative to
// a snapshot date.
type RFM struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
}

// LabelSource records where a risk label came from.
type LabelSource string

const (
	// LabelSourceTarget means the label column was present in the input.
	LabelSourceTarget LabelSource = "target_column"
	// LabelSourceProxy means the label was inferred from RFM clustering. It is
	// a statistical artifact of the clustering, not an observed default.
	LabelSourceProxy LabelSource = "proxy_rfm_kmeans"
)

// RiskLabel is the binary high-risk flag of one customer.
type RiskLabel struct {
	CustomerID string `json:"customer_id"`
	Cluster    int    `json:"cluster"`
	HighRisk   int    `json:"is_high_risk"`
}

// TrainingRun summarises one execution of the training pipeline.
type TrainingRun struct {
	ID            string             `json:"id"`
	StartedAt     time.Time          `json:"started_at"`
	FinishedAt    time.Time          `json:"finished_at"`
	ModelKind     string             `json:"model_kind"`
	AUC           float64            `json:"auc"`
	CandidateAUC  map[string]float64 `json:"candidate_auc"`
	Rows          int                `json:"rows"`
	Customers     int                `json:"customers"`
	LabelSource   LabelSource        `json:"label_source"`
	HighRiskCount int                `json:"high_risk_count"`
	ArtifactPath  string             `json:"artifact_path"`
}
