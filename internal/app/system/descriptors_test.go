package system

import "testing"

type mockProvider struct{ desc Descriptor }

func (m mockProvider) Descriptor() Descriptor { return m.desc }

func TestCollectDescriptors(t *testing.T) {
	providers := []DescriptorProvider{
		mockProvider{desc: Descriptor{Name: "svc1", Layer: LayerEngine}},
		mockProvider{desc: Descriptor{Name: "svc2", Layer: LayerIngress}},
		mockProvider{desc: Descriptor{Name: "svc3", Layer: LayerEngine}},
		nil,
	}

	descr := CollectDescriptors(providers)

	if len(descr) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(descr))
	}
	if descr[0].Name != "svc1" || descr[1].Name != "svc3" || descr[2].Name != "svc2" {
		t.Fatalf("unexpected order: %#v", descr)
	}
}
