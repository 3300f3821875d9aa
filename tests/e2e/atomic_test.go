// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package e2e_test

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/onsi/gomega"

	ginkgo "github.com/onsi/ginkgo/v2"

	"github.com/ava-labs/sharedmemory/api/sharedmemory"
	"github.com/ava-labs/sharedmemory/cmd/simulator/txs"
	"github.com/ava-labs/sharedmemory/core"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/tests/e2e"

	precompile "github.com/ava-labs/sharedmemory/precompile/contracts/sharedmemory"
)

var _ = e2e.DescribeAtomic("moving AVAX from X to C", ginkgo.Ordered, func() {
	var (
		ctx = context.Background()

		sender, recipient common.Address
		utxoID            ids.ID
	)

	ginkgo.BeforeAll(func() {
		sender = address(keys[0])
		recipient = address(keys[1])
	})

	pendingUTXOs := func() [][]byte {
		utxos, _, err := client(cChain).GetAtomicUTXOs(ctx, []common.Address{recipient}, xChain.ID(), 0, sharedmemory.Index{})
		gomega.Expect(err).Should(gomega.BeNil())
		return utxos
	}

	ginkgo.It("exports the minimal denomination", func() {
		before := balance(xChain, sender)

		tx, err := txs.ExportAVAX(sender, nonce(xChain, sender), 1, cChain.ID(), recipient)
		gomega.Expect(err).Should(gomega.BeNil())
		receipt, err := xChain.IssueTx(ctx, tx)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(receipt.Status).Should(gomega.Equal(core.ReceiptStatusSuccessful))

		gomega.Expect(receipt.Logs).Should(gomega.HaveLen(1))
		log := receipt.Logs[0]
		gomega.Expect(log.Address).Should(gomega.Equal(precompile.ContractAddress))
		gomega.Expect(log.Topics).Should(gomega.Equal([]common.Hash{
			precompile.SharedMemoryABI.Events["ExportAVAX"].ID,
			common.Hash(cChain.ID()),
		}))
		event, err := precompile.UnpackExportAVAXEventData(log.Data)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(event.Amount).Should(gomega.Equal(uint64(1)))
		gomega.Expect(event.Threshold).Should(gomega.Equal(uint64(1)))
		gomega.Expect(event.Addrs).Should(gomega.Equal([]common.Address{recipient}))

		expectBalance(xChain, sender, new(big.Int).Sub(before, wei(1)))

		utxoID, err = txs.ExportedUTXOID(receipt)
		gomega.Expect(err).Should(gomega.BeNil())

		// Shared memory is only written on accept.
		gomega.Expect(pendingUTXOs()).Should(gomega.BeEmpty())
		accept(xChain)
		gomega.Expect(pendingUTXOs()).Should(gomega.HaveLen(1))
	})

	ginkgo.It("imports the exported UTXO", func() {
		before := balance(cChain, recipient)

		tx, err := txs.ImportAVAX(keys[1], nonce(cChain, recipient), xChain.ID(), utxoID, wei(1).Uint64())
		gomega.Expect(err).Should(gomega.BeNil())
		receipt, err := cChain.IssueTx(ctx, tx)
		gomega.Expect(err).Should(gomega.BeNil())

		gomega.Expect(receipt.Logs).Should(gomega.HaveLen(1))
		log := receipt.Logs[0]
		gomega.Expect(log.Topics).Should(gomega.Equal([]common.Hash{
			precompile.SharedMemoryABI.Events["ImportAVAX"].ID,
			common.Hash(xChain.ID()),
		}))
		event, err := precompile.UnpackImportAVAXEventData(log.Data)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(event.Amount).Should(gomega.Equal(uint64(1)))
		gomega.Expect(event.UtxoID).Should(gomega.Equal(common.Hash(utxoID)))

		expectBalance(cChain, recipient, new(big.Int).Add(before, wei(1)))

		accept(cChain)
		gomega.Expect(pendingUTXOs()).Should(gomega.BeEmpty())
	})

	ginkgo.It("rejects importing the UTXO twice", func() {
		before := balance(cChain, recipient)
		txNonce := nonce(cChain, recipient)

		tx, err := txs.ImportAVAX(keys[1], txNonce, xChain.ID(), utxoID, 0)
		gomega.Expect(err).Should(gomega.BeNil())
		receipt, err := cChain.IssueTx(ctx, tx)
		gomega.Expect(err).Should(gomega.MatchError(precompile.ErrUTXONotFound))
		gomega.Expect(receipt.Status).Should(gomega.Equal(core.ReceiptStatusFailed))
		gomega.Expect(receipt.Logs).Should(gomega.BeEmpty())

		expectBalance(cChain, recipient, before)
		gomega.Expect(nonce(cChain, recipient)).Should(gomega.Equal(txNonce + 1))
		accept(cChain)
	})

	ginkgo.It("rejects an import of an unexpected amount", func() {
		tx, err := txs.ExportAVAX(sender, nonce(xChain, sender), 2, cChain.ID(), recipient)
		gomega.Expect(err).Should(gomega.BeNil())
		receipt, err := xChain.IssueTx(ctx, tx)
		gomega.Expect(err).Should(gomega.BeNil())
		utxoID, err = txs.ExportedUTXOID(receipt)
		gomega.Expect(err).Should(gomega.BeNil())
		accept(xChain)

		before := balance(cChain, recipient)
		tx, err = txs.ImportAVAX(keys[1], nonce(cChain, recipient), xChain.ID(), utxoID, wei(1).Uint64())
		gomega.Expect(err).Should(gomega.BeNil())
		receipt, err = cChain.IssueTx(ctx, tx)
		gomega.Expect(err).Should(gomega.MatchError(precompile.ErrAmountMismatch))
		gomega.Expect(receipt.Logs).Should(gomega.BeEmpty())
		expectBalance(cChain, recipient, before)
		accept(cChain)
		gomega.Expect(pendingUTXOs()).Should(gomega.HaveLen(1))

		tx, err = txs.ImportAVAX(keys[1], nonce(cChain, recipient), xChain.ID(), utxoID, wei(2).Uint64())
		gomega.Expect(err).Should(gomega.BeNil())
		_, err = cChain.IssueTx(ctx, tx)
		gomega.Expect(err).Should(gomega.BeNil())
		accept(cChain)
		expectBalance(cChain, recipient, new(big.Int).Add(before, wei(2)))
		gomega.Expect(pendingUTXOs()).Should(gomega.BeEmpty())
	})

	ginkgo.It("rejects exporting less than the minimal denomination", func() {
		before := balance(xChain, sender)

		data, err := precompile.PackExportAVAX(precompile.ExportAVAXInput{
			Amount:             precompile.X2CRate - 1,
			DestinationChainID: cChain.ID(),
			To:                 recipient,
		})
		gomega.Expect(err).Should(gomega.BeNil())
		receipt, err := xChain.IssueTx(ctx, &core.Tx{
			From:  sender,
			Nonce: nonce(xChain, sender),
			To:    precompile.ContractAddress,
			Gas:   txs.Gas,
			Data:  data,
		})
		gomega.Expect(err).Should(gomega.MatchError(precompile.ErrInsufficientPrecision))
		gomega.Expect(receipt.Logs).Should(gomega.BeEmpty())
		expectBalance(xChain, sender, before)

		accept(xChain)
		gomega.Expect(pendingUTXOs()).Should(gomega.BeEmpty())
	})
})

var _ = e2e.DescribeAPI("chain services", func() {
	ginkgo.It("reports the blockchain IDs", func() {
		for _, chain := range n.Chains() {
			chainID, err := client(chain).GetBlockchainID(context.Background())
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(chainID).Should(gomega.Equal(chain.ID()))
		}
	})
})
