package config

import "testing"

func TestDefaultMatchesEvaluatorDefaults(t *testing.T) {
	o := Default()
	if o.SweepInterval != 1 {
		t.Errorf("SweepInterval = %d, want 1", o.SweepInterval)
	}
	if o.VacuumInterval != 32 {
		t.Errorf("VacuumInterval = %d, want 32", o.VacuumInterval)
	}
	if o.MaxStackDepth != 1024 {
		t.Errorf("MaxStackDepth = %d, want 1024", o.MaxStackDepth)
	}
}

func TestNewAppliesOptions(t *testing.T) {
	o := New(
		WithMaxTotalBytes(1<<20),
		WithInterning(true),
		WithSweepInterval(4),
		WithVacuumInterval(0),
		WithDisabledFeatures(FeatureFileWrite, FeatureNetwork),
	)
	if o.MaxTotalBytes != 1<<20 {
		t.Errorf("MaxTotalBytes = %d, want %d", o.MaxTotalBytes, 1<<20)
	}
	if !o.EnableInterning {
		t.Error("EnableInterning = false, want true")
	}
	if o.SweepInterval != 4 {
		t.Errorf("SweepInterval = %d, want 4", o.SweepInterval)
	}
	if o.VacuumInterval != 0 {
		t.Errorf("VacuumInterval = %d, want 0", o.VacuumInterval)
	}
	if !o.Features.Disabled(FeatureFileWrite) {
		t.Error("FeatureFileWrite should be disabled")
	}
	if !o.Features.Disabled(FeatureNetwork) {
		t.Error("FeatureNetwork should be disabled")
	}
	if o.Features.Disabled(FeatureFileRead) {
		t.Error("FeatureFileRead should not be disabled")
	}
}

func TestMaskWithWithout(t *testing.T) {
	var m Mask
	m = m.With(FeatureFileRead)
	if !m.Disabled(FeatureFileRead) {
		t.Error("expected FeatureFileRead disabled after With")
	}
	m = m.Without(FeatureFileRead)
	if m.Disabled(FeatureFileRead) {
		t.Error("expected FeatureFileRead enabled after Without")
	}
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
max_total_bytes: 2048
enable_interning: true
sweep_interval: 8
vacuum_interval: 16
max_stack_depth: 256
disable_features:
  - file_write
  - process_spawn
`)
	o, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.MaxTotalBytes != 2048 {
		t.Errorf("MaxTotalBytes = %d, want 2048", o.MaxTotalBytes)
	}
	if !o.EnableInterning {
		t.Error("EnableInterning = false, want true")
	}
	if o.SweepInterval != 8 {
		t.Errorf("SweepInterval = %d, want 8", o.SweepInterval)
	}
	if o.VacuumInterval != 16 {
		t.Errorf("VacuumInterval = %d, want 16", o.VacuumInterval)
	}
	if o.MaxStackDepth != 256 {
		t.Errorf("MaxStackDepth = %d, want 256", o.MaxStackDepth)
	}
	if !o.Features.Disabled(FeatureFileWrite) || !o.Features.Disabled(FeatureProcessSpawn) {
		t.Error("expected file_write and process_spawn disabled")
	}
	if o.Features.Disabled(FeatureFileRead) {
		t.Error("file_read should remain enabled")
	}
}

func TestParseYAMLUnknownFeature(t *testing.T) {
	_, err := Parse([]byte("disable_features:\n  - bogus\n"))
	if err == nil {
		t.Fatal("expected error for unknown feature name")
	}
}

func TestParseYAMLDefaultsWhenOmitted(t *testing.T) {
	o, err := Parse([]byte("max_total_bytes: 100\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.SweepInterval != 1 {
		t.Errorf("SweepInterval = %d, want default 1", o.SweepInterval)
	}
	if o.VacuumInterval != 32 {
		t.Errorf("VacuumInterval = %d, want default 32", o.VacuumInterval)
	}
}

func TestValueOptionsProjection(t *testing.T) {
	o := New(WithMaxConcurrentBytes(512), WithInterning(true))
	vo := o.ValueOptions()
	if vo.MaxConcurrentBytes != 512 {
		t.Errorf("MaxConcurrentBytes = %d, want 512", vo.MaxConcurrentBytes)
	}
	if !vo.EnableInterning {
		t.Error("EnableInterning = false, want true")
	}
}
