package mnexium

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// RecordsService manages structured records: typed rows validated against
// a schema, queryable by field values and by semantic search. Unlike
// memories, records belong to the project, not to a subject.
type RecordsService struct {
	client *Client
}

// DefineSchema declares a record type. Defining an existing type again
// replaces its schema.
//
// Example:
//
//	schema, err := client.Records.DefineSchema(ctx, "account",
//	    map[string]mnexium.RecordFieldDef{
//	        "name":     {Type: "string", Required: true},
//	        "industry": {Type: "string"},
//	        "arr":      {Type: "number"},
//	    },
//	    mnexium.WithSchemaDisplayName("Account"))
func (s *RecordsService) DefineSchema(ctx context.Context, typeName string, fields map[string]RecordFieldDef, opts ...SchemaOption) (*RecordSchema, error) {
	if typeName == "" {
		return nil, newValidationError("record type name is required")
	}
	if len(fields) == 0 {
		return nil, newValidationError("record schema needs at least one field")
	}
	options := applySchemaOptions(opts...)

	body := struct {
		TypeName    string                    `json:"type_name"`
		Fields      map[string]RecordFieldDef `json:"fields"`
		DisplayName string                    `json:"display_name,omitempty"`
		Description string                    `json:"description,omitempty"`
	}{typeName, fields, options.DisplayName, options.Description}

	var schema RecordSchema
	if err := s.client.request(ctx, http.MethodPost, "/records/schemas", nil, body, nil, &schema); err != nil {
		return nil, err
	}
	if schema.TypeName == "" {
		schema.TypeName = typeName
	}
	return &schema, nil
}

// Schemas lists the project's record schemas.
func (s *RecordsService) Schemas(ctx context.Context) ([]*RecordSchema, error) {
	var envelope struct {
		Schemas []*RecordSchema `json:"schemas"`
	}
	if err := s.client.request(ctx, http.MethodGet, "/records/schemas", nil, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Schemas, nil
}

// Insert creates a record of the given type. Field values are validated
// against the schema on the server.
func (s *RecordsService) Insert(ctx context.Context, typeName string, data map[string]any) (*Record, error) {
	if typeName == "" {
		return nil, newValidationError("record type name is required")
	}
	if len(data) == 0 {
		return nil, newValidationError("record data is required")
	}

	body := struct {
		Data map[string]any `json:"data"`
	}{data}

	var created struct {
		RecordID string         `json:"record_id"`
		Data     map[string]any `json:"data"`
	}
	if err := s.client.request(ctx, http.MethodPost, "/records/"+typeName, nil, body, nil, &created); err != nil {
		return nil, err
	}
	record := &Record{ID: created.RecordID, TypeName: typeName, Data: created.Data}
	if record.Data == nil {
		record.Data = data
	}
	return record, nil
}

// Get retrieves a record by ID. A deleted or unknown record yields a
// NotFoundError.
func (s *RecordsService) Get(ctx context.Context, typeName, recordID string) (*Record, error) {
	if typeName == "" {
		return nil, newValidationError("record type name is required")
	}
	if recordID == "" {
		return nil, newValidationError("record id is required")
	}
	var record Record
	if err := s.client.request(ctx, http.MethodGet, "/records/"+typeName+"/"+recordID, nil, nil, nil, &record); err != nil {
		return nil, err
	}
	if record.TypeName == "" {
		record.TypeName = typeName
	}
	return &record, nil
}

// Update merges new field values into a record. Fields not named keep
// their values.
func (s *RecordsService) Update(ctx context.Context, typeName, recordID string, data map[string]any) (*Record, error) {
	if typeName == "" {
		return nil, newValidationError("record type name is required")
	}
	if recordID == "" {
		return nil, newValidationError("record id is required")
	}
	if len(data) == 0 {
		return nil, newValidationError("record data is required")
	}

	body := struct {
		Data map[string]any `json:"data"`
	}{data}

	var record Record
	if err := s.client.request(ctx, http.MethodPatch, "/records/"+typeName+"/"+recordID, nil, body, nil, &record); err != nil {
		return nil, err
	}
	if record.TypeName == "" {
		record.TypeName = typeName
	}
	return &record, nil
}

// Delete removes a record.
func (s *RecordsService) Delete(ctx context.Context, typeName, recordID string) error {
	if typeName == "" {
		return newValidationError("record type name is required")
	}
	if recordID == "" {
		return newValidationError("record id is required")
	}
	return s.client.request(ctx, http.MethodDelete, "/records/"+typeName+"/"+recordID, nil, nil, nil, nil)
}

// Query filters records by field values.
//
// Example:
//
//	deals, err := client.Records.Query(ctx, "deal",
//	    mnexium.WithWhere(map[string]any{"stage": "closed_won"}),
//	    mnexium.WithOrderBy("-value"),
//	    mnexium.WithQueryLimit(10))
func (s *RecordsService) Query(ctx context.Context, typeName string, opts ...RecordQueryOption) ([]*Record, error) {
	if typeName == "" {
		return nil, newValidationError("record type name is required")
	}
	options := applyRecordQueryOptions(opts...)
	if options.Limit < 0 {
		return nil, newValidationError("limit must not be negative")
	}

	body := struct {
		Where   map[string]any `json:"where,omitempty"`
		OrderBy string         `json:"order_by,omitempty"`
		Limit   int            `json:"limit,omitempty"`
	}{options.Where, options.OrderBy, options.Limit}

	var envelope struct {
		Data []*Record `json:"data"`
	}
	if err := s.client.request(ctx, http.MethodPost, "/records/"+typeName+"/query", nil, body, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Search finds records semantically related to a free-text query. Results
// carry their match score in Record.Similarity.
func (s *RecordsService) Search(ctx context.Context, typeName, query string, opts ...RecordQueryOption) ([]*Record, error) {
	if typeName == "" {
		return nil, newValidationError("record type name is required")
	}
	if query == "" {
		return nil, newValidationError("search query is required")
	}
	options := applyRecordQueryOptions(opts...)
	if options.Limit < 0 {
		return nil, newValidationError("limit must not be negative")
	}

	params := url.Values{}
	params.Set("q", query)
	if options.Limit > 0 {
		params.Set("limit", strconv.Itoa(options.Limit))
	}

	var envelope struct {
		Data []*Record `json:"data"`
	}
	if err := s.client.request(ctx, http.MethodGet, "/records/"+typeName+"/search", params, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}
