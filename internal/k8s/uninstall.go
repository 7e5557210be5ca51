package k8s

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/util/ptr"
)

const (
	uninstallNamespace      = "pc-control-plane"
	uninstallServiceAccount = "pinetools"
	uninstallContainer      = "pinetools"
	uninstallCommand        = "pinetools cluster uninstall --force"

	defaultUninstallTimeout = 30 * time.Minute
	defaultPollInterval     = 10 * time.Second
)

// JobFailedError reports an uninstall job that ran and failed. Logs carries
// whatever the job's pods wrote before dying.
type JobFailedError struct {
	JobName string
	Logs    string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("uninstall job %s failed; run destroy again to retry\nlogs:\n%s", e.JobName, e.Logs)
}

// TimeoutError reports an uninstall job that never reached a terminal state.
// Distinct from JobFailedError: the job may still be running, so the cluster
// deserves a look before retrying.
type TimeoutError struct {
	JobName string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("uninstall job %s did not finish within %s; check cluster health and run destroy again to retry", e.JobName, e.Timeout)
}

// Uninstaller submits the pinetools uninstall job and waits for it to
// complete. Satisfies resources.UninstallRunner.
type Uninstaller struct {
	newClientset func(ctx context.Context, kubeconfig []byte) (kubernetes.Interface, error)
	newJobName   func() string
	sleep        func(ctx context.Context, d time.Duration) error
	pollInterval time.Duration
	timeout      time.Duration
	logf         func(format string, args ...any)
}

func NewUninstaller() *Uninstaller {
	u := &Uninstaller{
		newJobName:   randomJobName,
		sleep:        sleepContext,
		pollInterval: defaultPollInterval,
		timeout:      defaultUninstallTimeout,
		logf:         log.Printf,
	}
	u.newClientset = func(ctx context.Context, kubeconfig []byte) (kubernetes.Interface, error) {
		return NewClientset(ctx, kubeconfig, u.logf)
	}
	return u
}

func randomJobName() string {
	return "pinetools-uninstall-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// jobOutcome classifies one observation of the job's status.
type jobOutcome int

const (
	jobRunning jobOutcome = iota
	jobSucceeded
	jobFailed
)

// evaluateJob is the pure transition function the poll loop is built on.
func evaluateJob(status batchv1.JobStatus) jobOutcome {
	switch {
	case status.Succeeded > 0:
		return jobSucceeded
	case status.Failed > 0:
		return jobFailed
	default:
		return jobRunning
	}
}

// Uninstall runs `pinetools cluster uninstall --force` as a Job in the
// cluster and blocks until it finishes. A job that has already been deleted
// counts as success: there is nothing left to uninstall.
func (u *Uninstaller) Uninstall(ctx context.Context, kubeconfig []byte, image string) error {
	clientset, err := u.newClientset(ctx, kubeconfig)
	if err != nil {
		return err
	}

	jobName := u.newJobName()
	jobs := clientset.BatchV1().Jobs(uninstallNamespace)

	u.logf("creating uninstall job %s", jobName)
	if _, err := jobs.Create(ctx, uninstallJob(jobName, image), metav1.CreateOptions{}); err != nil {
		if !k8serrors.IsAlreadyExists(err) {
			return fmt.Errorf("create uninstall job: %w", err)
		}
		u.logf("uninstall job %s already exists, waiting for it", jobName)
	}

	for elapsed := time.Duration(0); elapsed < u.timeout; elapsed += u.pollInterval {
		job, err := jobs.Get(ctx, jobName, metav1.GetOptions{})
		if err != nil {
			if k8serrors.IsNotFound(err) {
				u.logf("uninstall job %s not found, nothing left to wait for", jobName)
				return nil
			}
			return fmt.Errorf("poll uninstall job: %w", err)
		}

		switch evaluateJob(job.Status) {
		case jobSucceeded:
			u.logf("uninstall job %s completed", jobName)
			return nil
		case jobFailed:
			return &JobFailedError{JobName: jobName, Logs: u.collectLogs(ctx, clientset, jobName)}
		}

		u.logf("waiting for uninstall job %s (active: %d, elapsed: %s)", jobName, job.Status.Active, elapsed)
		if err := u.sleep(ctx, u.pollInterval); err != nil {
			return err
		}
	}

	return &TimeoutError{JobName: jobName, Timeout: u.timeout}
}

// collectLogs gathers output from the job's pods for the failure report.
// Pods that refuse to yield logs are skipped; a partial report beats none.
func (u *Uninstaller) collectLogs(ctx context.Context, clientset kubernetes.Interface, jobName string) string {
	pods, err := clientset.CoreV1().Pods(uninstallNamespace).List(ctx, metav1.ListOptions{
		LabelSelector: "job-name=" + jobName,
	})
	if err != nil {
		u.logf("could not list pods for job %s: %v", jobName, err)
		return ""
	}

	var b strings.Builder
	for _, pod := range pods.Items {
		raw, err := clientset.CoreV1().Pods(uninstallNamespace).GetLogs(pod.Name, &corev1.PodLogOptions{}).Do(ctx).Raw()
		if err != nil {
			continue
		}
		b.Write(raw)
	}
	return b.String()
}

func uninstallJob(name, image string) *batchv1.Job {
	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: uninstallNamespace,
		},
		Spec: batchv1.JobSpec{
			BackoffLimit:            ptr.Int32(1),
			ActiveDeadlineSeconds:   ptr.Int64(600),
			TTLSecondsAfterFinished: ptr.Int32(300),
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					ServiceAccountName: uninstallServiceAccount,
					RestartPolicy:      corev1.RestartPolicyOnFailure,
					Tolerations: []corev1.Toleration{
						{
							Key:      "node.kubernetes.io/disk-pressure",
							Operator: corev1.TolerationOpExists,
							Effect:   corev1.TaintEffectNoSchedule,
						},
					},
					Containers: []corev1.Container{
						{
							Name:    uninstallContainer,
							Image:   image,
							Command: []string{"/bin/sh", "-c"},
							Args:    []string{uninstallCommand},
							Resources: corev1.ResourceRequirements{
								Requests: corev1.ResourceList{
									corev1.ResourceEphemeralStorage: resource.MustParse("1Gi"),
									corev1.ResourceMemory:           resource.MustParse("512Mi"),
									corev1.ResourceCPU:              resource.MustParse("100m"),
								},
								Limits: corev1.ResourceList{
									corev1.ResourceEphemeralStorage: resource.MustParse("5Gi"),
									corev1.ResourceMemory:           resource.MustParse("2Gi"),
								},
							},
						},
					},
				},
			},
		},
	}
}
