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

import "strings"

// Service names
const (
	ServiceCrypto          = "proto.CryptoService"
	ServiceFile            = "proto.FileService"
	ServiceConsensus       = "proto.ConsensusService"
	ServiceNetwork         = "proto.NetworkService"
	ServiceMirrorConsensus = "com.hedera.mirror.api.proto.ConsensusService"
)

// Full RPC method names
const (
	MethodCryptoCreateAccount    = "/" + ServiceCrypto + "/createAccount"
	MethodCryptoTransfer         = "/" + ServiceCrypto + "/cryptoTransfer"
	MethodCryptoGetBalance       = "/" + ServiceCrypto + "/cryptoGetBalance"
	MethodCryptoGetInfo          = "/" + ServiceCrypto + "/getAccountInfo"
	MethodGetTransactionReceipts = "/" + ServiceCrypto + "/getTransactionReceipts"
	MethodGetTxRecordByTxID      = "/" + ServiceCrypto + "/getTxRecordByTxID"
	MethodFileCreate             = "/" + ServiceFile + "/createFile"
	MethodFileAppend             = "/" + ServiceFile + "/appendContent"
	MethodFileGetInfo            = "/" + ServiceFile + "/getFileInfo"
	MethodFileGetContents        = "/" + ServiceFile + "/getFileContent"
	MethodConsensusCreateTopic   = "/" + ServiceConsensus + "/createTopic"
	MethodConsensusSubmitMessage = "/" + ServiceConsensus + "/submitMessage"
	MethodNetworkGetVersionInfo  = "/" + ServiceNetwork + "/getVersionInfo"
	MethodMirrorSubscribeTopic   = "/" + ServiceMirrorConsensus + "/subscribeTopic"
)

var transactionMethods = map[string]string{
	"cryptoTransfer":         MethodCryptoTransfer,
	"cryptoCreateAccount":    MethodCryptoCreateAccount,
	"fileCreate":             MethodFileCreate,
	"fileAppend":             MethodFileAppend,
	"consensusCreateTopic":   MethodConsensusCreateTopic,
	"consensusSubmitMessage": MethodConsensusSubmitMessage,
}

// TransactionMethods returns every unary method that accepts a Transaction
func TransactionMethods() []string {
	ret := make([]string, 0, len(transactionMethods))
	for _, method := range transactionMethods {
		ret = append(ret, method)
	}
	return ret
}

// QueryMethods returns every unary method that accepts a Query
func QueryMethods() []string {
	return []string{
		MethodCryptoGetBalance,
		MethodCryptoGetInfo,
		MethodGetTransactionReceipts,
		MethodGetTxRecordByTxID,
		MethodFileGetInfo,
		MethodFileGetContents,
		MethodNetworkGetVersionInfo,
	}
}

// SplitMethod splits a full method name into its service and method parts
func SplitMethod(fullMethod string) (string, string) {
	tmp := strings.TrimPrefix(fullMethod, "/")
	idx := strings.LastIndex(tmp, "/")
	if idx < 0 {
		return "", tmp
	}
	return tmp[:idx], tmp[idx+1:]
}
