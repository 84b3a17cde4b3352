package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/turtacn/molsdg/internal/domain/catalog"
	"github.com/turtacn/molsdg/internal/domain/molecule"
	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/common"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

// Example is one built-in catalog molecule.
type Example = catalog.Entry

// Report is the per-atom perception report of a molecule.
type Report = molecule.Report

// BatchResult is the response of a batch layout call.
type BatchResult = common.BatchResponse[*layout.Result]

// LayoutsClient wraps the /api/v1 layout endpoints.
type LayoutsClient struct {
	client *Client
}

// Layout lays out a single SMILES string or catalog example.
func (l *LayoutsClient) Layout(ctx context.Context, req *layout.Request) (*layout.Result, error) {
	if req == nil {
		return nil, errors.InvalidParam("request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var res layout.Result
	if err := l.client.post(ctx, "/api/v1/layout", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LayoutSMILES is Layout for a bare SMILES string with default options.
func (l *LayoutsClient) LayoutSMILES(ctx context.Context, smiles string) (*layout.Result, error) {
	return l.Layout(ctx, &layout.Request{SMILES: smiles})
}

// BatchLayout lays out every item. Per-item failures are reported in the
// Failed list, not as an error.
func (l *LayoutsClient) BatchLayout(ctx context.Context, items []layout.Request) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, errors.InvalidParam("batch must contain at least one item")
	}
	var res BatchResult
	if err := l.client.post(ctx, "/api/v1/layout/batch", &layout.BatchRequest{Items: items}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Report returns the perception report for req.
func (l *LayoutsClient) Report(ctx context.Context, req *layout.Request) (*Report, error) {
	if req == nil {
		return nil, errors.InvalidParam("request is required")
	}
	var rep Report
	if err := l.client.post(ctx, "/api/v1/report", req, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// Examples lists the catalog, optionally restricted to one category.
func (l *LayoutsClient) Examples(ctx context.Context, category string) ([]Example, error) {
	path := "/api/v1/examples"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var entries []Example
	if err := l.client.get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ExampleLayout lays out a catalog example by "category/name" or bare name.
func (l *LayoutsClient) ExampleLayout(ctx context.Context, key string, opts layout.Options) (*layout.Result, error) {
	key = strings.Trim(key, "/")
	if key == "" {
		return nil, errors.InvalidParam("example key is required")
	}
	segments := strings.Split(key, "/")
	if len(segments) > 2 {
		return nil, errors.InvalidParam("example key must be name or category/name").WithDetail(key)
	}
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	path := "/api/v1/examples/" + strings.Join(segments, "/") + "/layout"
	if q := optionsQuery(opts); len(q) > 0 {
		path += "?" + q.Encode()
	}
	var res layout.Result
	if err := l.client.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Archived fetches a previously archived layout.
func (l *LayoutsClient) Archived(ctx context.Context, smiles string) (*layout.Result, error) {
	if strings.TrimSpace(smiles) == "" {
		return nil, errors.InvalidParam("smiles is required")
	}
	var res layout.Result
	path := "/api/v1/archive?" + url.Values{"smiles": {smiles}}.Encode()
	if err := l.client.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func optionsQuery(opts layout.Options) url.Values {
	q := url.Values{}
	if opts.BondLength > 0 {
		q.Set("bond_length", strconv.FormatFloat(opts.BondLength, 'g', -1, 64))
	}
	if opts.MaxSharedBonds > 0 {
		q.Set("max_shared_bonds", strconv.Itoa(opts.MaxSharedBonds))
	}
	if opts.MaxBetaAtoms > 0 {
		q.Set("max_beta_atoms", strconv.Itoa(opts.MaxBetaAtoms))
	}
	return q
}

//Personal.AI order the ending
