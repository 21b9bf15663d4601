package collector

import (
	"errors"
	"strings"
	"testing"
	"time"

	imagev1 "github.com/openshift/api/image/v1"
	imagefake "github.com/openshift/client-go/image/clientset/versioned/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	kubefake "k8s.io/client-go/kubernetes/fake"
	ktesting "k8s.io/client-go/testing"
	"k8s.io/utils/ptr"

	"github.com/imagewatch/lineage-exporter/pkg/catalog"
	"github.com/imagewatch/lineage-exporter/pkg/snapshot"
)

// Runtime identifiers go through strict reference parsing, so test
// digests must be well formed.
var (
	appDigest    = "sha256:" + strings.Repeat("a", 64)
	baseDigest   = "sha256:" + strings.Repeat("b", 64)
	strayDigest  = "sha256:" + strings.Repeat("c", 64)
	appImageRef  = "registry.local/team/app@" + appDigest
	baseImageRef = "registry.local/team/base@" + baseDigest
)

func catalogImage(t *testing.T, digest, reference, created string, layers ...string) *imagev1.Image {
	t.Helper()
	img := &imagev1.Image{
		ObjectMeta:           metav1.ObjectMeta{Name: digest},
		DockerImageReference: reference,
	}
	if created != "" {
		img.DockerImageMetadata = runtime.RawExtension{
			Raw: []byte(`{"Created":"` + created + `"}`),
		}
	}
	for _, layer := range layers {
		img.DockerImageLayers = append(img.DockerImageLayers, imagev1.ImageLayer{Name: layer})
	}
	return img
}

func testIndex(t *testing.T, images ...*imagev1.Image) *catalog.ImageIndex {
	t.Helper()
	objs := make([]runtime.Object, len(images))
	for i, img := range images {
		objs[i] = img
	}
	ix, err := catalog.BuildImageIndex(t.Context(), imagefake.NewSimpleClientset(objs...).ImageV1())
	require.NoError(t, err)
	return ix
}

func runningPod(namespace, name string, statuses ...corev1.ContainerStatus) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
		Status: corev1.PodStatus{
			Phase:             corev1.PodRunning,
			ContainerStatuses: statuses,
		},
	}
}

func TestPodCollectorEmitsLineagePair(t *testing.T) {
	ix := testIndex(t,
		catalogImage(t, appDigest, appImageRef, "2024-03-01T10:00:00Z", "l1", "l2", "l3"),
		catalogImage(t, baseDigest, baseImageRef, "2024-01-01T00:00:00Z", "l1", "l2"),
	)
	client := kubefake.NewSimpleClientset(
		runningPod("team-a", "web-1", corev1.ContainerStatus{
			Name:    "web",
			ImageID: "docker-pullable://" + appImageRef,
		}),
	)

	c := &PodCollector{Client: client}
	res, err := c.Collect(t.Context(), ix, catalog.ProvenanceIndex{})
	require.NoError(t, err)
	require.Len(t, res.Images, 2)

	appCreated := float64(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Unix())
	assert.Equal(t, snapshot.ImageRow{
		Namespace:      "team-a",
		PodContainer:   "web-1/web",
		Type:           snapshot.RowTypeContainerImage,
		Image:          appImageRef,
		OwnerContainer: "web-1/web",
		Repo:           "registry.local/team/app",
		CreatedUnix:    appCreated,
	}, res.Images[0])

	baseCreated := float64(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix())
	assert.Equal(t, snapshot.ImageRow{
		Namespace:      "team-a",
		PodContainer:   "web-1/web",
		Type:           snapshot.RowTypeParentImage,
		Image:          baseImageRef,
		OwnerContainer: "web-1/web",
		Repo:           "registry.local/team/base",
		CreatedUnix:    baseCreated,
	}, res.Images[1])

	assert.Empty(t, res.Missing)
}

func TestPodCollectorUncatalogedImage(t *testing.T) {
	ix := testIndex(t)
	client := kubefake.NewSimpleClientset(
		runningPod("team-a", "job-1", corev1.ContainerStatus{
			Name:    "worker",
			ImageID: "docker-pullable://registry.local/stray@" + strayDigest,
		}),
	)

	c := &PodCollector{Client: client}
	res, err := c.Collect(t.Context(), ix, catalog.ProvenanceIndex{})
	require.NoError(t, err)
	require.Len(t, res.Images, 2)

	// The container row keeps its real identity with a zero timestamp.
	assert.Equal(t, "registry.local/stray@"+strayDigest, res.Images[0].Image)
	assert.Equal(t, "registry.local/stray", res.Images[0].Repo)
	assert.Zero(t, res.Images[0].CreatedUnix)

	// The parent row carries the placeholder.
	assert.Equal(t, snapshot.UnknownImage, res.Images[1].Image)
	assert.Equal(t, snapshot.UnknownImage, res.Images[1].Repo)
	assert.Zero(t, res.Images[1].CreatedUnix)

	assert.True(t, res.Missing.Has("registry.local/stray@"+strayDigest))
}

func TestPodCollectorMissingProvenanceBase(t *testing.T) {
	ix := testIndex(t,
		catalogImage(t, appDigest, appImageRef, "2024-03-01T10:00:00Z", "l1"),
	)
	provenance := catalog.ProvenanceIndex{
		appDigest: "registry.local/vanished@" + strayDigest,
	}
	client := kubefake.NewSimpleClientset(
		runningPod("team-a", "web-1", corev1.ContainerStatus{
			Name:    "web",
			ImageID: "docker-pullable://" + appImageRef,
		}),
	)

	c := &PodCollector{Client: client}
	res, err := c.Collect(t.Context(), ix, provenance)
	require.NoError(t, err)

	assert.Equal(t, snapshot.UnknownImage, res.Images[1].Image)
	assert.True(t, res.Missing.Has("registry.local/vanished@"+strayDigest))
}

func TestPodCollectorSkipsNonRunningAndTerminating(t *testing.T) {
	ix := testIndex(t)
	pending := runningPod("team-a", "pending-1", corev1.ContainerStatus{
		Name:    "c",
		ImageID: "docker-pullable://" + appImageRef,
	})
	pending.Status.Phase = corev1.PodPending
	terminating := runningPod("team-a", "dying-1", corev1.ContainerStatus{
		Name:    "c",
		ImageID: "docker-pullable://" + appImageRef,
	})
	terminating.DeletionTimestamp = ptr.To(metav1.Now())

	c := &PodCollector{Client: kubefake.NewSimpleClientset(pending, terminating)}
	res, err := c.Collect(t.Context(), ix, catalog.ProvenanceIndex{})
	require.NoError(t, err)
	assert.Empty(t, res.Images)
}

func TestPodCollectorSkipsUnparseableImageID(t *testing.T) {
	ix := testIndex(t)
	client := kubefake.NewSimpleClientset(
		runningPod("team-a", "odd-1",
			corev1.ContainerStatus{Name: "no-scheme", ImageID: "registry.local/app@" + appDigest},
			corev1.ContainerStatus{Name: "no-digest", ImageID: "docker-pullable://registry.local/app:latest"},
			corev1.ContainerStatus{Name: "empty", ImageID: ""},
		),
	)

	c := &PodCollector{Client: client}
	res, err := c.Collect(t.Context(), ix, catalog.ProvenanceIndex{})
	require.NoError(t, err)
	assert.Empty(t, res.Images)
	assert.Empty(t, res.Missing)
}

func TestPodCollectorEnvRows(t *testing.T) {
	ix := testIndex(t)
	pod := runningPod("team-a", "web-1")
	pod.Spec.Containers = []corev1.Container{
		{Name: "web", Env: []corev1.EnvVar{{Name: "MODE", Value: "prod"}}},
		{Name: "sidecar"},
	}

	c := &PodCollector{Client: kubefake.NewSimpleClientset(pod)}
	res, err := c.Collect(t.Context(), ix, catalog.ProvenanceIndex{})
	require.NoError(t, err)

	require.Len(t, res.Envs, 1)
	assert.Equal(t, "web-1/web", res.Envs[0].PodContainer)
	assert.Equal(t, map[string]string{"env_MODE": "prod"}, res.Envs[0].Vars)
}

func TestPodCollectorListFailure(t *testing.T) {
	client := kubefake.NewSimpleClientset()
	client.PrependReactor("list", "pods", func(ktesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})

	c := &PodCollector{Client: client}
	res, err := c.Collect(t.Context(), testIndex(t), catalog.ProvenanceIndex{})
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestParseImageID(t *testing.T) {
	full, repo, digest, ok := parseImageID("docker-pullable://" + appImageRef)
	require.True(t, ok)
	assert.Equal(t, appImageRef, full)
	assert.Equal(t, "registry.local/team/app", repo)
	assert.Equal(t, appDigest, digest)

	_, _, _, ok = parseImageID("docker-pullable://")
	assert.False(t, ok)
	_, _, _, ok = parseImageID("docker-pullable://not a reference")
	assert.False(t, ok)
	_, _, _, ok = parseImageID("docker-pullable://registry.local/app@sha256:short")
	assert.False(t, ok)
}
