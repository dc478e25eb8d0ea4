/*
Package cmd
File: migrate_save.go
Description:
    `migrate-save` rewrites a version-4 game save's embedded simulation
    block so every actor slot uses the current idealMin/idealMax band
    shape, forward-migrating the legacy single-value `ideal` field the
    same way internal/sim/save.go's loadSlot does on load — but as a
    standalone tool, so an old save can be normalized ahead of a deploy
    without spinning up a full engine against its world data.
*/

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/everforgeworks/supplyline-core/internal/sim"
	"github.com/spf13/cobra"
)

func newMigrateSaveCommand() *cobra.Command {
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "migrate-save",
		Short: "Normalize a version-4 game save's legacy ideal-band slot fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateSave(inPath, outPath)
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "path to the input version-4 game save (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the migrated save (required)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runMigrateSave(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read input save: %w", err)
	}

	gs, err := sim.ParseGameSave(data)
	if err != nil {
		return fmt.Errorf("parse game save: %w", err)
	}

	if len(gs.Simulation) == 0 || string(gs.Simulation) == "null" {
		return writeMigratedSave(outPath, data)
	}

	var simBlock map[string]interface{}
	if err := json.Unmarshal(gs.Simulation, &simBlock); err != nil {
		return fmt.Errorf("decode simulation block: %w", err)
	}

	migrated := 0
	if actorStates, ok := simBlock["actorStates"].([]interface{}); ok {
		for _, raw := range actorStates {
			actor, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			migrated += migrateSlotList(actor["inputStorage"])
			migrated += migrateSlotList(actor["outputStorage"])
		}
	}

	newSimJSON, err := json.Marshal(simBlock)
	if err != nil {
		return fmt.Errorf("re-encode simulation block: %w", err)
	}

	out, err := sim.BuildGameSave(gs.MapConfig, gs.Tiles, gs.Objects, gs.Routes, gs.NextObjectID, gs.NextRouteID, gs.Economy, newSimJSON)
	if err != nil {
		return fmt.Errorf("build migrated save: %w", err)
	}

	if err := writeMigratedSave(outPath, out); err != nil {
		return err
	}
	fmt.Printf("migrated %d legacy ideal-band slot(s)\n", migrated)
	return nil
}

// migrateSlotList rewrites every slot in a raw inputStorage/outputStorage
// array that still carries the legacy single-value `ideal` field and no
// idealMin/idealMax pair, and reports how many it touched.
func migrateSlotList(raw interface{}) int {
	slots, ok := raw.([]interface{})
	if !ok {
		return 0
	}
	count := 0
	for _, rawSlot := range slots {
		slot, ok := rawSlot.(map[string]interface{})
		if !ok {
			continue
		}
		_, hasMin := slot["idealMin"]
		_, hasMax := slot["idealMax"]
		idealVal, hasIdeal := slot["ideal"]
		if hasMin || hasMax || !hasIdeal {
			continue
		}
		ideal, _ := idealVal.(float64)
		capacity, _ := slot["capacity"].(float64)
		idealMax := ideal
		if capacity > 0 && idealMax > capacity {
			idealMax = capacity
		}
		slot["idealMin"] = 0
		slot["idealMax"] = idealMax
		delete(slot, "ideal")
		count++
	}
	return count
}

func writeMigratedSave(outPath string, data []byte) error {
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write migrated save: %w", err)
	}
	return nil
}
