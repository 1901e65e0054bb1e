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
	"time"

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

type FileInfo struct {
	FileId         ledger.FileId
	Size           int64
	ExpirationTime time.Time
	Deleted        bool
	Keys           []keys.PublicKey
	FileMemo       string
}

// FileInfoQuery fetches the metadata of a file
type FileInfoQuery struct {
	Query[*FileInfoQuery]
	fileId ledger.FileId
}

func NewFileInfoQuery() *FileInfoQuery {
	q := &FileInfoQuery{}
	q.Query = newQuery(q, q)
	return q
}

func (q *FileInfoQuery) SetFileId(fileId ledger.FileId) *FileInfoQuery {
	q.fileId = fileId
	return q
}

func (q *FileInfoQuery) GetFileId() ledger.FileId {
	return q.fileId
}

func (q *FileInfoQuery) Execute(ctx context.Context, client *Client) (FileInfo, error) {
	resp, err := q.execute(ctx, client)
	if err != nil {
		return FileInfo{}, err
	}
	info := resp.FileGetInfo
	ret := FileInfo{
		FileId:         info.FileID.FileId(),
		Size:           info.Size,
		ExpirationTime: info.ExpirationTime.Time(),
		Deleted:        info.Deleted,
		Keys:           []keys.PublicKey{},
		FileMemo:       info.Memo,
	}
	for _, tmpKey := range info.Keys.Keys {
		key, err := keys.PublicKeyFromProtocol(tmpKey)
		if err != nil {
			return FileInfo{}, &CodecError{Op: "decode", Err: err}
		}
		ret.Keys = append(ret.Keys, key)
	}
	return ret, nil
}

func (q *FileInfoQuery) queryName() string {
	return "FileInfoQuery"
}

func (q *FileInfoQuery) method() string {
	return protocol.MethodFileGetInfo
}

func (q *FileInfoQuery) paymentExempt() bool {
	return false
}

func (q *FileInfoQuery) validate() error {
	if q.fileId.IsZero() {
		return ErrMissingFileId
	}
	return nil
}

func (q *FileInfoQuery) buildQuery(header protocol.QueryHeader) *protocol.Query {
	return &protocol.Query{
		Header: header,
		FileGetInfo: &protocol.FileGetInfoQuery{
			FileID: protocol.NewEntityID(q.fileId.EntityId),
		},
	}
}

func (q *FileInfoQuery) classifyStatus(_ protocol.Status) (protocol.StatusClass, bool) {
	return 0, false
}

func (q *FileInfoQuery) validateResponse(resp *protocol.Response) error {
	if resp.FileGetInfo == nil {
		return missingAnswer(q.queryName())
	}
	return nil
}

func (q *FileInfoQuery) validateChecksums(ledgerId ledger.LedgerId) error {
	return q.fileId.ValidateChecksum(ledgerId)
}
