// Copyright 2025 Poiesic Systems
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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/remedymatch/core"
)

// MarshalRemedyRecord serializes a RemedyRecord to bytes.
func MarshalRemedyRecord(record *core.RemedyRecord) []byte {
	buf := make([]byte, core.RemedyRecordMUS.Size(*record))
	core.RemedyRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRemedyRecord deserializes a RemedyRecord from bytes.
func UnmarshalRemedyRecord(data []byte) (*core.RemedyRecord, error) {
	record, _, err := core.RemedyRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: remedy record: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalCorpusMeta serializes CorpusMeta to bytes. ImportedAt is kept with
// microsecond precision in UTC.
func MarshalCorpusMeta(meta *core.CorpusMeta) []byte {
	importedAt := meta.ImportedAt.UnixMicro()
	count := int64(meta.Count)
	size := core.IDMUS.Size(meta.Fingerprint) +
		varint.Int64.Size(count) +
		ord.String.Size(meta.Source) +
		varint.Int64.Size(importedAt)

	buf := make([]byte, size)
	n := core.IDMUS.Marshal(meta.Fingerprint, buf)
	n += varint.Int64.Marshal(count, buf[n:])
	n += ord.String.Marshal(meta.Source, buf[n:])
	varint.Int64.Marshal(importedAt, buf[n:])
	return buf
}

// UnmarshalCorpusMeta deserializes CorpusMeta from bytes.
func UnmarshalCorpusMeta(data []byte) (*core.CorpusMeta, error) {
	var (
		meta       core.CorpusMeta
		count      int64
		importedAt int64
		n, n1      int
		err        error
	)
	if meta.Fingerprint, n, err = core.IDMUS.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: corpus meta fingerprint: %w", ErrSerializationFailed, err)
	}
	if count, n1, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: corpus meta count: %w", ErrSerializationFailed, err)
	}
	n += n1
	if meta.Source, n1, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: corpus meta source: %w", ErrSerializationFailed, err)
	}
	n += n1
	if importedAt, _, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: corpus meta import time: %w", ErrSerializationFailed, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: corpus meta count %d", ErrSerializationFailed, count)
	}

	meta.Count = int(count)
	meta.ImportedAt = time.UnixMicro(importedAt).UTC()
	return &meta, nil
}
