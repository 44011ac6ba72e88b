// Package jobs defines the asynq task names and payloads shared by the API
// (producer) and the worker (consumer).
package jobs

const TaskImportProducts = "import:products"

// ImportProductsPayload carries an uploaded CSV to the worker. Files are
// small merchant catalogs, so the raw bytes ride in the payload instead of
// a blob store.
type ImportProductsPayload struct {
	MerchantID string `json:"merchant_id"`
	Filename   string `json:"filename,omitempty"`
	CSV        []byte `json:"csv"`
}
