package catalog

import (
	"errors"
	"testing"

	buildv1 "github.com/openshift/api/build/v1"
	buildfake "github.com/openshift/client-go/build/clientset/versioned/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ktesting "k8s.io/client-go/testing"
)

func dockerBuild(name, base, output string) *buildv1.Build {
	b := &buildv1.Build{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "apps"},
		Spec: buildv1.BuildSpec{
			CommonSpec: buildv1.CommonSpec{
				Strategy: buildv1.BuildStrategy{
					DockerStrategy: &buildv1.DockerBuildStrategy{
						From: &corev1.ObjectReference{Kind: "DockerImage", Name: base},
					},
				},
			},
		},
	}
	if output != "" {
		b.Status.Output.To = &buildv1.BuildStatusOutputTo{ImageDigest: output}
	}
	return b
}

func sourceBuild(name, base, output string) *buildv1.Build {
	b := &buildv1.Build{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "apps"},
		Spec: buildv1.BuildSpec{
			CommonSpec: buildv1.CommonSpec{
				Strategy: buildv1.BuildStrategy{
					SourceStrategy: &buildv1.SourceBuildStrategy{
						From: corev1.ObjectReference{Kind: "DockerImage", Name: base},
					},
				},
			},
		},
	}
	if output != "" {
		b.Status.Output.To = &buildv1.BuildStatusOutputTo{ImageDigest: output}
	}
	return b
}

func TestBuildProvenanceIndex(t *testing.T) {
	client := buildfake.NewSimpleClientset(
		dockerBuild("docker-build", "registry.local/base@sha256:base1", "sha256:out1"),
		sourceBuild("source-build", "registry.local/builder@sha256:base2", "sha256:out2"),
	)

	idx, err := BuildProvenanceIndex(t.Context(), client.BuildV1())
	require.NoError(t, err)
	require.Len(t, idx, 2)

	base, ok := idx.Base("sha256:out1")
	require.True(t, ok)
	assert.Equal(t, "registry.local/base@sha256:base1", base)

	base, ok = idx.Base("sha256:out2")
	require.True(t, ok)
	assert.Equal(t, "registry.local/builder@sha256:base2", base)
}

func TestBuildProvenanceIndexSkipsIncompleteBuilds(t *testing.T) {
	noStrategy := &buildv1.Build{
		ObjectMeta: metav1.ObjectMeta{Name: "custom", Namespace: "apps"},
		Spec: buildv1.BuildSpec{
			CommonSpec: buildv1.CommonSpec{
				Strategy: buildv1.BuildStrategy{
					CustomStrategy: &buildv1.CustomBuildStrategy{
						From: corev1.ObjectReference{Kind: "DockerImage", Name: "r/custom@sha256:c"},
					},
				},
			},
		},
	}
	noStrategy.Status.Output.To = &buildv1.BuildStatusOutputTo{ImageDigest: "sha256:custom"}

	client := buildfake.NewSimpleClientset(
		// Base reference without a digest component.
		dockerBuild("tag-base", "registry.local/base:latest", "sha256:tagged"),
		// No recorded output digest.
		dockerBuild("running", "registry.local/base@sha256:base", ""),
		// Neither of the two recognized strategy shapes.
		noStrategy,
	)

	idx, err := BuildProvenanceIndex(t.Context(), client.BuildV1())
	require.NoError(t, err)
	assert.Empty(t, idx)
}

func TestBuildProvenanceIndexListFailure(t *testing.T) {
	client := buildfake.NewSimpleClientset()
	client.PrependReactor("list", "builds", func(ktesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("unauthorized")
	})

	_, err := BuildProvenanceIndex(t.Context(), client.BuildV1())
	assert.Error(t, err)
}
