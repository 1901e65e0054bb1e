// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hedera

import (
	"context"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

// FileContentsQuery fetches the contents of a file
type FileContentsQuery struct {
	Query[*FileContentsQuery]
	fileId ledger.FileId
}

func NewFileContentsQuery() *FileContentsQuery {
	q := &FileContentsQuery{}
	q.Query = newQuery(q, q)
	return q
}

func (q *FileContentsQuery) SetFileId(fileId ledger.FileId) *FileContentsQuery {
	q.fileId = fileId
	return q
}

func (q *FileContentsQuery) GetFileId() ledger.FileId {
	return q.fileId
}

func (q *FileContentsQuery) Execute(ctx context.Context, client *Client) ([]byte, error) {
	resp, err := q.execute(ctx, client)
	if err != nil {
		return nil, err
	}
	if resp.FileGetContents.Contents == nil {
		return []byte{}, nil
	}
	return resp.FileGetContents.Contents, nil
}

func (q *FileContentsQuery) queryName() string {
	return "FileContentsQuery"
}

func (q *FileContentsQuery) method() string {
	return protocol.MethodFileGetContents
}

func (q *FileContentsQuery) paymentExempt() bool {
	return false
}

func (q *FileContentsQuery) validate() error {
	if q.fileId.IsZero() {
		return ErrMissingFileId
	}
	return nil
}

func (q *FileContentsQuery) buildQuery(header protocol.QueryHeader) *protocol.Query {
	return &protocol.Query{
		Header: header,
		FileGetContents: &protocol.FileGetContentsQuery{
			FileID: protocol.NewEntityID(q.fileId.EntityId),
		},
	}
}

func (q *FileContentsQuery) classifyStatus(_ protocol.Status) (protocol.StatusClass, bool) {
	return 0, false
}

func (q *FileContentsQuery) validateResponse(resp *protocol.Response) error {
	if resp.FileGetContents == nil {
		return missingAnswer(q.queryName())
	}
	return nil
}

func (q *FileContentsQuery) validateChecksums(ledgerId ledger.LedgerId) error {
	return q.fileId.ValidateChecksum(ledgerId)
}
