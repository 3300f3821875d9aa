// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// e2e implements the e2e tests.
package e2e_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/onsi/gomega"

	ginkgo "github.com/onsi/ginkgo/v2"

	"github.com/ava-labs/sharedmemory/api/sharedmemory"
	"github.com/ava-labs/sharedmemory/cmd/simulator/node"
	"github.com/ava-labs/sharedmemory/cmd/simulator/worker"
	"github.com/ava-labs/sharedmemory/config"
	"github.com/ava-labs/sharedmemory/core"
	"github.com/ava-labs/sharedmemory/utils/constants"
	"github.com/ava-labs/sharedmemory/utils/logging"

	precompile "github.com/ava-labs/sharedmemory/precompile/contracts/sharedmemory"
)

// nAVAX every key holds on every chain at genesis
const fundedAmount = 1_000

func TestE2e(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "sharedmemory e2e test suites")
}

var (
	logFactory logging.Factory
	n          *node.Node
	server     *httptest.Server

	keys           []*ecdsa.PrivateKey
	xChain, cChain *worker.Chain
)

var _ = ginkgo.BeforeSuite(func() {
	var err error
	keys, err = worker.Keys(2)
	gomega.Expect(err).Should(gomega.BeNil())

	zero := uint64(0)
	genesis := worker.FundedGenesis(&core.Genesis{
		Config: core.UpgradeConfig{
			PrecompileUpgrades: []core.PrecompileUpgrade{
				{Config: precompile.NewConfig(&zero)},
			},
		},
	}, keys, fundedAmount)

	logConfig := logging.DefaultConfig("")
	logConfig.LogLevel = logging.Off
	logConfig.DisplayLevel = logging.Off
	logFactory = logging.NewFactory(logConfig)

	n, err = node.New(config.Config{
		NetworkID:      constants.UnitTestID,
		DatabaseConfig: config.DatabaseConfig{Type: config.MemDB},
		HTTPConfig:     config.HTTPConfig{MetricsEnabled: true},
		LoggingConfig:  logConfig,
	}, genesis, logFactory)
	gomega.Expect(err).Should(gomega.BeNil())

	chains := n.Chains()
	gomega.Expect(chains).Should(gomega.HaveLen(2))
	xChain, cChain = chains[0], chains[1]

	server = httptest.NewServer(n.Handler())
})

var _ = ginkgo.AfterSuite(func() {
	server.Close()
	gomega.Expect(n.Close()).Should(gomega.Succeed())
	logFactory.Close()
})

func address(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

func balance(chain *worker.Chain, addr common.Address) *big.Int {
	b, err := chain.GetBalance(addr)
	gomega.Expect(err).Should(gomega.BeNil())
	return b.ToBig()
}

func expectBalance(chain *worker.Chain, addr common.Address, expected *big.Int) {
	gomega.Expect(balance(chain, addr).String()).Should(gomega.Equal(expected.String()))
}

func nonce(chain *worker.Chain, addr common.Address) uint64 {
	nonce, err := chain.GetNonce(addr)
	gomega.Expect(err).Should(gomega.BeNil())
	return nonce
}

func accept(chain *worker.Chain) {
	_, err := chain.Accept(context.Background())
	gomega.Expect(err).Should(gomega.BeNil())
}

func client(chain *worker.Chain) sharedmemory.Client {
	return sharedmemory.NewClient(server.URL + "/ext/bc/" + chain.Alias)
}

// wei returns [amount] nAVAX in wei.
func wei(amount uint64) *big.Int {
	return new(big.Int).SetUint64(amount * precompile.X2CRate)
}
