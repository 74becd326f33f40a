package gradient_test

import (
	"testing"

	"github.com/katalvlaran/swarmrole/gradient"
	"github.com/katalvlaran/swarmrole/topology"
)

// BenchmarkBuild_TriangleBlob measures the round-based build on a random
// connected triangle-grid network of 200 agents.
func BenchmarkBuild_TriangleBlob(b *testing.B) {
	topo, err := topology.Build(randomBlob(200, 42))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = gradient.Build(topo, gradient.WithVerify(false))
	}
}

// BenchmarkVerify isolates the post-condition check.
func BenchmarkVerify(b *testing.B) {
	topo, err := topology.Build(randomBlob(200, 42))
	if err != nil {
		b.Fatal(err)
	}
	f, err := gradient.Build(topo)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Verify()
	}
}
