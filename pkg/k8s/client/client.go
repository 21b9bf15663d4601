package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	buildv1client "github.com/openshift/client-go/build/clientset/versioned/typed/build/v1"
	imagev1client "github.com/openshift/client-go/image/clientset/versioned/typed/image/v1"
	routev1client "github.com/openshift/client-go/route/clientset/versioned/typed/route/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	apperrors "github.com/imagewatch/lineage-exporter/pkg/errors"
)

const (
	namespaceEnvVar   = "POD_NAMESPACE"
	namespaceFile     = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"
	namespaceFallback = "default"
)

// Clients bundles the cluster API surfaces the exporter reads and writes.
// All fields are interfaces so tests can substitute fake clientsets.
type Clients struct {
	Core  kubernetes.Interface
	Image imagev1client.ImageV1Interface
	Build buildv1client.BuildV1Interface
	Route routev1client.RouteV1Interface
}

var (
	clientOnce    sync.Once
	cachedClients *Clients
	clientErr     error
)

// Get returns a singleton client bundle, creating it on first call.
// Subsequent calls return the cached bundle for connection reuse and
// reduced load on the cluster API server.
//
// Configuration is discovered from:
//   - KUBECONFIG environment variable
//   - ~/.kube/config (default location)
//   - In-cluster service account (when running as a pod)
func Get() (*Clients, error) {
	clientOnce.Do(func() {
		cachedClients, clientErr = Build("")
	})
	return cachedClients, clientErr
}

// Build creates a client bundle from the given kubeconfig file.
// If kubeconfig is empty, automatic discovery applies: the KUBECONFIG
// environment variable, then ~/.kube/config, then the in-cluster
// service account configuration.
func Build(kubeconfig string) (*Clients, error) {
	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")

		if kubeconfig == "" {
			kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
			if _, err := os.Stat(kubeconfig); os.IsNotExist(err) {
				// BuildConfigFromFlags falls back to the in-cluster
				// configuration when both arguments are empty.
				kubeconfig = ""
			}
		}
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to build kube config", err)
	}

	return NewForConfig(config)
}

// NewForConfig creates a client bundle from an existing rest config.
func NewForConfig(config *rest.Config) (*Clients, error) {
	core, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to create kubernetes client", err)
	}

	image, err := imagev1client.NewForConfig(config)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to create image client", err)
	}

	build, err := buildv1client.NewForConfig(config)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to create build client", err)
	}

	route, err := routev1client.NewForConfig(config)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeClusterAPI, "failed to create route client", err)
	}

	return &Clients{
		Core:  core,
		Image: image,
		Build: build,
		Route: route,
	}, nil
}

// Namespace returns the namespace this process runs in, used to scope the
// missing-image stream. It checks the POD_NAMESPACE environment variable,
// then the service account namespace file, then falls back to "default".
func Namespace() string {
	if ns := os.Getenv(namespaceEnvVar); ns != "" {
		return ns
	}
	if data, err := os.ReadFile(namespaceFile); err == nil {
		if ns := strings.TrimSpace(string(data)); ns != "" {
			return ns
		}
	}
	return namespaceFallback
}
