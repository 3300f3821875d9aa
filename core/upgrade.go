// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/sharedmemory/precompile/modules"
	"github.com/ava-labs/sharedmemory/precompile/precompileconfig"
)

var (
	errMultipleKeys      = errors.New("PrecompileUpgrade must contain exactly 1 key")
	errUnknownPrecompile = errors.New("unknown precompile config")
	errNoTimestamp       = errors.New("block timestamp cannot be nil")
)

// PrecompileUpgrade is a helper struct embedded in UpgradeConfig.
// It is used to unmarshal the json into the correct precompile config type
// based on the key. Keys are defined in each precompile module, and registered
// in the modules package.
type PrecompileUpgrade struct {
	precompileconfig.Config
}

// UnmarshalJSON unmarshals the json into the correct precompile config type
// based on the key.
// Example: {"sharedMemoryConfig": {"blockTimestamp": 0}}
func (u *PrecompileUpgrade) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return errMultipleKeys
	}
	for key, value := range raw {
		module, ok := modules.GetPrecompileModule(key)
		if !ok {
			return fmt.Errorf("%w: %q", errUnknownPrecompile, key)
		}
		config := module.MakeConfig()
		if err := json.Unmarshal(value, config); err != nil {
			return err
		}
		u.Config = config
	}
	return nil
}

// MarshalJSON marshal the precompile config into json based on the precompile key.
// Example: {"sharedMemoryConfig": {"blockTimestamp": 0}}
func (u *PrecompileUpgrade) MarshalJSON() ([]byte, error) {
	res := make(map[string]precompileconfig.Config)
	res[u.Key()] = u.Config
	return json.Marshal(res)
}

// UpgradeConfig lists the precompile activations of a chain in timestamp
// order.
type UpgradeConfig struct {
	PrecompileUpgrades []PrecompileUpgrade `json:"precompileUpgrades,omitempty"`
}

// Verify checks that every upgrade is valid and that the upgrades of each
// precompile alternate between enabling and disabling at increasing
// timestamps, starting with an enable.
func (c *UpgradeConfig) Verify() error {
	var (
		lastTimestamp = make(map[string]uint64)
		lastDisabled  = make(map[string]bool)
	)
	for i, upgrade := range c.PrecompileUpgrades {
		key := upgrade.Key()
		timestamp := upgrade.Timestamp()
		if timestamp == nil {
			return fmt.Errorf("PrecompileUpgrade (%s) at [%d]: %w", key, i, errNoTimestamp)
		}

		disabled, seen := lastDisabled[key]
		if !seen {
			disabled = true
		}
		if disabled == upgrade.IsDisabled() {
			return fmt.Errorf("PrecompileUpgrade (%s) at [%d]: disable should be [%v]", key, i, !disabled)
		}
		if seen && *timestamp <= lastTimestamp[key] {
			return fmt.Errorf("PrecompileUpgrade (%s) at [%d]: config block timestamp (%d) <= previous timestamp (%d) of same key", key, i, *timestamp, lastTimestamp[key])
		}
		if err := upgrade.Verify(); err != nil {
			return fmt.Errorf("PrecompileUpgrade (%s) at [%d]: %w", key, i, err)
		}

		lastTimestamp[key] = *timestamp
		lastDisabled[key] = upgrade.IsDisabled()
	}
	return nil
}

// ActivatingConfigs returns the upgrades of the precompile at [address] that
// take effect when moving from [parent] to [current].
func (c *UpgradeConfig) ActivatingConfigs(address common.Address, parent *uint64, current uint64) []precompileconfig.Config {
	module, ok := modules.GetPrecompileModuleByAddress(address)
	if !ok {
		return nil
	}
	var configs []precompileconfig.Config
	for _, upgrade := range c.PrecompileUpgrades {
		if upgrade.Key() != module.ConfigKey {
			continue
		}
		if precompileconfig.IsForkTransition(upgrade.Timestamp(), parent, current) {
			configs = append(configs, upgrade.Config)
		}
	}
	return configs
}

// ActiveConfig returns the config of the precompile at [address] in effect at
// [timestamp], if it is enabled.
func (c *UpgradeConfig) ActiveConfig(address common.Address, timestamp uint64) (precompileconfig.Config, bool) {
	module, ok := modules.GetPrecompileModuleByAddress(address)
	if !ok {
		return nil, false
	}
	var active precompileconfig.Config
	for _, upgrade := range c.PrecompileUpgrades {
		if upgrade.Key() != module.ConfigKey {
			continue
		}
		if precompileconfig.IsTimestampForked(upgrade.Timestamp(), timestamp) {
			active = upgrade.Config
		}
	}
	if active == nil || active.IsDisabled() {
		return nil, false
	}
	return active, true
}
