// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ethereum

import (
	"bytes"
	"context"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/pkg/errors"
	"math/big"
	"sync"
)

// fakeClient executes the counter contract rules in memory behind the ethclient surface
type fakeClient struct {
	sync.Mutex
	abi      abi.ABI
	chainId  *big.Int
	contract common.Address
	code     []byte
	owner    common.Address
	counter  uint32
	fee      *big.Int
	nonces   map[common.Address]uint64
	receipts map[common.Hash]*types.Receipt
	sent     []*types.Transaction
	callErr  error
}

func newFakeClient(parsed abi.ABI, chainId uint32, contract common.Address, owner common.Address, counter uint32) *fakeClient {
	return &fakeClient{
		abi:      parsed,
		chainId:  big.NewInt(int64(chainId)),
		contract: contract,
		code:     []byte{0x60, 0x80, 0x60, 0x40},
		owner:    owner,
		counter:  counter,
		fee:      big.NewInt(1000),
		nonces:   make(map[common.Address]uint64),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (f *fakeClient) methodOf(data []byte) adapter.Method {
	for _, method := range []adapter.Method{adapter.GET_COUNTER, adapter.OWNER, adapter.INCREASE_COUNTER, adapter.DECREASE_COUNTER, adapter.RESET_COUNTER} {
		if id, err := selector(f.abi, method); err == nil && bytes.HasPrefix(data, id) {
			return method
		}
	}
	if id, err := selector(f.abi, adapter.SET_COUNTER, uint32(0)); err == nil && bytes.HasPrefix(data, id) {
		return adapter.SET_COUNTER
	}
	return ""
}

func (f *fakeClient) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.Lock()
	defer f.Unlock()

	if f.callErr != nil {
		return nil, f.callErr
	}
	if len(f.code) == 0 {
		return nil, nil
	}

	switch method := f.methodOf(call.Data); method {
	case adapter.GET_COUNTER:
		return f.abi.Methods[method.String()].Outputs.Pack(f.counter)
	case adapter.OWNER:
		return f.abi.Methods[method.String()].Outputs.Pack(f.owner)
	}
	return nil, errors.New("execution reverted")
}

func (f *fakeClient) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	f.Lock()
	defer f.Unlock()
	if account != f.contract {
		return nil, nil
	}
	return f.code, nil
}

func (f *fakeClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	f.Lock()
	defer f.Unlock()
	return f.nonces[account], nil
}

func (f *fakeClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (f *fakeClient) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 50000, nil
}

func (f *fakeClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	from, err := types.Sender(types.NewEIP155Signer(f.chainId), tx)
	if err != nil {
		return errors.Wrap(err, "invalid sender")
	}

	f.Lock()
	defer f.Unlock()

	if tx.Nonce() != f.nonces[from] {
		return errors.Errorf("nonce too low")
	}
	f.nonces[from]++
	f.sent = append(f.sent, tx)

	status := types.ReceiptStatusSuccessful
	if err := f.execute(from, tx); err != nil {
		status = types.ReceiptStatusFailed
	}
	f.receipts[tx.Hash()] = &types.Receipt{Status: status, TxHash: tx.Hash(), GasUsed: 21000}
	return nil
}

func (f *fakeClient) execute(from common.Address, tx *types.Transaction) error {
	isOwner := from == f.owner
	switch method := f.methodOf(tx.Data()); method {
	case adapter.INCREASE_COUNTER:
		if !isOwner {
			return errors.New("not owner")
		}
		f.counter++
	case adapter.DECREASE_COUNTER:
		if !isOwner || f.counter == 0 {
			return errors.New("rejected")
		}
		f.counter--
	case adapter.RESET_COUNTER:
		if f.counter == 0 || tx.Value().Cmp(f.fee) < 0 {
			return errors.New("rejected")
		}
		f.counter = 0
	case adapter.SET_COUNTER:
		if !isOwner {
			return errors.New("not owner")
		}
		values, err := f.abi.Methods[method.String()].Inputs.UnpackValues(tx.Data()[4:])
		if err != nil {
			return err
		}
		f.counter = values[0].(uint32)
	default:
		return errors.New("unknown method")
	}
	return nil
}

func (f *fakeClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.Lock()
	defer f.Unlock()
	if receipt, ok := f.receipts[txHash]; ok {
		return receipt, nil
	}
	return nil, ethereum.NotFound
}

func (f *fakeClient) ChainID(ctx context.Context) (*big.Int, error) {
	return f.chainId, nil
}

func (f *fakeClient) value() uint32 {
	f.Lock()
	defer f.Unlock()
	return f.counter
}

func (f *fakeClient) sentTransactions() []*types.Transaction {
	f.Lock()
	defer f.Unlock()
	return append([]*types.Transaction{}, f.sent...)
}
