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

package protocol

import "fmt"

// Status is the response code returned by nodes, both as the synchronous
// precheck status and as the consensus status inside receipts
type Status int32

const (
	StatusOk                             Status = 0
	StatusInvalidTransaction             Status = 1
	StatusPayerAccountNotFound           Status = 2
	StatusInvalidNodeAccount             Status = 3
	StatusTransactionExpired             Status = 4
	StatusInvalidTransactionStart        Status = 5
	StatusInvalidTransactionDuration     Status = 6
	StatusInvalidSignature               Status = 7
	StatusMemoTooLong                    Status = 8
	StatusInsufficientTxFee              Status = 9
	StatusInsufficientPayerBalance       Status = 10
	StatusDuplicateTransaction           Status = 11
	StatusBusy                           Status = 12
	StatusNotSupported                   Status = 13
	StatusInvalidFileId                  Status = 14
	StatusInvalidAccountId               Status = 15
	StatusInvalidContractId              Status = 16
	StatusInvalidTransactionId           Status = 17
	StatusReceiptNotFound                Status = 18
	StatusRecordNotFound                 Status = 19
	StatusInvalidSolidityId              Status = 20
	StatusUnknown                        Status = 21
	StatusSuccess                        Status = 22
	StatusFailInvalid                    Status = 23
	StatusFailFee                        Status = 24
	StatusFailBalance                    Status = 25
	StatusKeyRequired                    Status = 26
	StatusBadEncoding                    Status = 27
	StatusInsufficientAccountBalance     Status = 28
	StatusInvalidSolidityAddress         Status = 29
	StatusInsufficientGas                Status = 30
	StatusContractSizeLimitExceeded      Status = 31
	StatusLocalCallModificationException Status = 32
	StatusContractRevertExecuted         Status = 33
	StatusContractExecutionException     Status = 34
	StatusInvalidReceivingNodeAccount    Status = 35
	StatusMissingQueryHeader             Status = 36
	StatusAccountUpdateFailed            Status = 37
	StatusInvalidKeyEncoding             Status = 38
	StatusNullSolidityAddress            Status = 39
	StatusContractUpdateFailed           Status = 40
	StatusInvalidQueryHeader             Status = 41
	StatusInvalidFeeSubmitted            Status = 42
	StatusInvalidPayerSignature          Status = 43
	StatusKeyNotProvided                 Status = 44
	StatusInvalidExpirationTime          Status = 45
	StatusNoWaclKey                      Status = 46
	StatusFileContentEmpty               Status = 47
	StatusInvalidAccountAmounts          Status = 48
	StatusEmptyTransactionBody           Status = 49
	StatusInvalidTransactionBody         Status = 50
	StatusEmptyQueryBody                 Status = 57
	StatusAccountIdDoesNotExist          Status = 60
	StatusSerializationFailed            Status = 63
	StatusTransactionOversize            Status = 64
	StatusTransactionTooManyLayers       Status = 65
	StatusContractDeleted                Status = 66
	StatusPlatformNotActive              Status = 67
	StatusKeyPrefixMismatch              Status = 68
	StatusPlatformTransactionNotCreated  Status = 69
	StatusInvalidRenewalPeriod           Status = 70
	StatusInvalidPayerAccount            Status = 71
	StatusAccountDeleted                 Status = 72
	StatusFileDeleted                    Status = 73
	StatusAccountRepeatedInAmounts       Status = 74
	StatusSettingNegativeAccountBalance  Status = 75
	StatusInvalidInitialBalance          Status = 85
	StatusPayerAccountUnauthorized       Status = 89
	StatusInvalidTopicId                 Status = 150
	StatusInvalidChunkNumber             Status = 163
	StatusInvalidChunkTransactionId      Status = 164
)

var statusNames = map[Status]string{
	StatusOk:                             "OK",
	StatusInvalidTransaction:             "INVALID_TRANSACTION",
	StatusPayerAccountNotFound:           "PAYER_ACCOUNT_NOT_FOUND",
	StatusInvalidNodeAccount:             "INVALID_NODE_ACCOUNT",
	StatusTransactionExpired:             "TRANSACTION_EXPIRED",
	StatusInvalidTransactionStart:        "INVALID_TRANSACTION_START",
	StatusInvalidTransactionDuration:     "INVALID_TRANSACTION_DURATION",
	StatusInvalidSignature:               "INVALID_SIGNATURE",
	StatusMemoTooLong:                    "MEMO_TOO_LONG",
	StatusInsufficientTxFee:              "INSUFFICIENT_TX_FEE",
	StatusInsufficientPayerBalance:       "INSUFFICIENT_PAYER_BALANCE",
	StatusDuplicateTransaction:           "DUPLICATE_TRANSACTION",
	StatusBusy:                           "BUSY",
	StatusNotSupported:                   "NOT_SUPPORTED",
	StatusInvalidFileId:                  "INVALID_FILE_ID",
	StatusInvalidAccountId:               "INVALID_ACCOUNT_ID",
	StatusInvalidContractId:              "INVALID_CONTRACT_ID",
	StatusInvalidTransactionId:           "INVALID_TRANSACTION_ID",
	StatusReceiptNotFound:                "RECEIPT_NOT_FOUND",
	StatusRecordNotFound:                 "RECORD_NOT_FOUND",
	StatusInvalidSolidityId:              "INVALID_SOLIDITY_ID",
	StatusUnknown:                        "UNKNOWN",
	StatusSuccess:                        "SUCCESS",
	StatusFailInvalid:                    "FAIL_INVALID",
	StatusFailFee:                        "FAIL_FEE",
	StatusFailBalance:                    "FAIL_BALANCE",
	StatusKeyRequired:                    "KEY_REQUIRED",
	StatusBadEncoding:                    "BAD_ENCODING",
	StatusInsufficientAccountBalance:     "INSUFFICIENT_ACCOUNT_BALANCE",
	StatusInvalidSolidityAddress:         "INVALID_SOLIDITY_ADDRESS",
	StatusInsufficientGas:                "INSUFFICIENT_GAS",
	StatusContractSizeLimitExceeded:      "CONTRACT_SIZE_LIMIT_EXCEEDED",
	StatusLocalCallModificationException: "LOCAL_CALL_MODIFICATION_EXCEPTION",
	StatusContractRevertExecuted:         "CONTRACT_REVERT_EXECUTED",
	StatusContractExecutionException:     "CONTRACT_EXECUTION_EXCEPTION",
	StatusInvalidReceivingNodeAccount:    "INVALID_RECEIVING_NODE_ACCOUNT",
	StatusMissingQueryHeader:             "MISSING_QUERY_HEADER",
	StatusAccountUpdateFailed:            "ACCOUNT_UPDATE_FAILED",
	StatusInvalidKeyEncoding:             "INVALID_KEY_ENCODING",
	StatusNullSolidityAddress:            "NULL_SOLIDITY_ADDRESS",
	StatusContractUpdateFailed:           "CONTRACT_UPDATE_FAILED",
	StatusInvalidQueryHeader:             "INVALID_QUERY_HEADER",
	StatusInvalidFeeSubmitted:            "INVALID_FEE_SUBMITTED",
	StatusInvalidPayerSignature:          "INVALID_PAYER_SIGNATURE",
	StatusKeyNotProvided:                 "KEY_NOT_PROVIDED",
	StatusInvalidExpirationTime:          "INVALID_EXPIRATION_TIME",
	StatusNoWaclKey:                      "NO_WACL_KEY",
	StatusFileContentEmpty:               "FILE_CONTENT_EMPTY",
	StatusInvalidAccountAmounts:          "INVALID_ACCOUNT_AMOUNTS",
	StatusEmptyTransactionBody:           "EMPTY_TRANSACTION_BODY",
	StatusInvalidTransactionBody:         "INVALID_TRANSACTION_BODY",
	StatusEmptyQueryBody:                 "EMPTY_QUERY_BODY",
	StatusAccountIdDoesNotExist:          "ACCOUNT_ID_DOES_NOT_EXIST",
	StatusSerializationFailed:            "SERIALIZATION_FAILED",
	StatusTransactionOversize:            "TRANSACTION_OVERSIZE",
	StatusTransactionTooManyLayers:       "TRANSACTION_TOO_MANY_LAYERS",
	StatusContractDeleted:                "CONTRACT_DELETED",
	StatusPlatformNotActive:              "PLATFORM_NOT_ACTIVE",
	StatusKeyPrefixMismatch:              "KEY_PREFIX_MISMATCH",
	StatusPlatformTransactionNotCreated:  "PLATFORM_TRANSACTION_NOT_CREATED",
	StatusInvalidRenewalPeriod:           "INVALID_RENEWAL_PERIOD",
	StatusInvalidPayerAccount:            "INVALID_PAYER_ACCOUNT",
	StatusAccountDeleted:                 "ACCOUNT_DELETED",
	StatusFileDeleted:                    "FILE_DELETED",
	StatusAccountRepeatedInAmounts:       "ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS",
	StatusSettingNegativeAccountBalance:  "SETTING_NEGATIVE_ACCOUNT_BALANCE",
	StatusInvalidInitialBalance:          "INVALID_INITIAL_BALANCE",
	StatusPayerAccountUnauthorized:       "PAYER_ACCOUNT_UNAUTHORIZED",
	StatusInvalidTopicId:                 "INVALID_TOPIC_ID",
	StatusInvalidChunkNumber:             "INVALID_CHUNK_NUMBER",
	StatusInvalidChunkTransactionId:      "INVALID_CHUNK_TRANSACTION_ID",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNRECOGNIZED(%d)", int32(s))
}

// Known reports whether the status is part of the response code table
func (s Status) Known() bool {
	_, ok := statusNames[s]
	return ok
}

// StatusByName returns the status for a response code name
func StatusByName(name string) (Status, bool) {
	for status, tmpName := range statusNames {
		if tmpName == name {
			return status, true
		}
	}
	return 0, false
}
