package emucore

import (
	"testing"
)

func TestRegionNames(t *testing.T) {
	tests := []struct {
		region Region
		name   string
	}{
		{RegionWorkRAM, "work_ram"},
		{RegionZ80RAM, "z80_ram"},
		{RegionVRAM, "vram"},
		{RegionCRAM, "cram"},
		{RegionVSRAM, "vsram"},
		{RegionVDPRegs, "vdp_regs"},
		{RegionSAT, "sat"},
		{RegionBootROM, "boot_rom"},
		{RegionPRGRAM, "prg_ram"},
		{RegionWordRAM, "word_ram"},
		{RegionPCMRAM, "pcm_ram"},
		{RegionBRAM, "bram"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.String(); got != tt.name {
				t.Errorf("Region(%d).String() = %q, want %q", tt.region, got, tt.name)
			}
			r, ok := ParseRegion(tt.name)
			if !ok {
				t.Fatalf("ParseRegion(%q) not found", tt.name)
			}
			if r != tt.region {
				t.Errorf("ParseRegion(%q) = %d, want %d", tt.name, r, tt.region)
			}
		})
	}
}

func TestRegionOutOfRange(t *testing.T) {
	for _, r := range []Region{-1, RegionCount, 99} {
		if r.Valid() {
			t.Errorf("Region(%d).Valid() = true, want false", r)
		}
		if r.String() != "unknown" {
			t.Errorf("Region(%d).String() = %q, want \"unknown\"", r, r.String())
		}
	}
	if _, ok := ParseRegion("zram"); ok {
		t.Error("ParseRegion(\"zram\") found a region, want none")
	}
}

func TestRegionsEnumerationOrder(t *testing.T) {
	regions := Regions()
	if len(regions) != int(RegionCount) {
		t.Fatalf("len = %d, want %d", len(regions), RegionCount)
	}
	for i, r := range regions {
		if int(r) != i {
			t.Errorf("regions[%d] = %d", i, r)
		}
	}
}

func TestVariantString(t *testing.T) {
	if got := VariantMD.String(); got != "0x80" {
		t.Errorf("VariantMD.String() = %q, want \"0x80\"", got)
	}
	if got := VariantUnknown.String(); got != "0x00" {
		t.Errorf("VariantUnknown.String() = %q, want \"0x00\"", got)
	}
}
