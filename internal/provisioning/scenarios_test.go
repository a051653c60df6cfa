package provisioning_test

import (
	"context"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/executor"
	"github.com/imamik/sdprov/internal/executor/fakes"
	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/provisioning"
	"github.com/imamik/sdprov/internal/storage"
)

func lun(id string) map[string]any {
	return map[string]any{
		"id": id,
		"logical_units": []any{map[string]any{
			"size": float64(1 << 34), "vendor_id": "V", "product_id": "P",
			"status": "free", "paths": float64(1), "discard_max_size": float64(0),
		}},
	}
}

func created(storageRecord map[string]any, status string) executor.Result {
	return executor.Result{
		executor.ReturnCodeKey: float64(0),
		"otopi_storage_domain_details": map[string]any{
			"storagedomain": map[string]any{
				"status":    status,
				"available": float64(53687091200),
				"storage":   storageRecord,
			},
		},
	}
}

// operator stands in for a person at the terminal.
type operator struct {
	answers map[string]string
	notes   []string
}

func (o *operator) QueryString(_ context.Context, q prompt.Query) (string, error) {
	return q.Resolve(o.answers[q.Name])
}

func (o *operator) Note(text string) { o.notes = append(o.notes, text) }

var _ = Describe("Storage domain provisioning", func() {
	var (
		ctx  context.Context
		exec *fakes.Executor
		log  *logrus.Logger
		hook *logrustest.Hook
	)

	BeforeEach(func() {
		ctx = context.Background()
		exec = fakes.NewExecutor()
		log, hook = logrustest.NewNullLogger()
	})

	runWith := func(p prompt.Prompter, cfg *storage.Config) (*provisioning.Outcome, error) {
		m := provisioning.NewMachine(exec, p, provisioning.Options{
			Identity:   discovery.Identity{FQDN: "engine.example.com", HostName: "host1", AdminPassword: "pw"},
			LocalVMDir: "/var/tmp/localvm",
			RetryDelay: time.Millisecond,
		}, log)
		return m.Run(ctx, cfg)
	}

	run := func(answers map[string]string, cfg *storage.Config) (*provisioning.Outcome, error) {
		return runWith(prompt.NewAnswers(answers, nil, log), cfg)
	}

	notes := func() string {
		var b strings.Builder
		for _, e := range hook.AllEntries() {
			b.WriteString(e.Message)
			b.WriteString("\n")
		}
		return b.String()
	}

	Describe("Fibre Channel LUN selection", func() {
		BeforeEach(func() {
			exec.On(executor.TagFCGetDevices, executor.Result{
				"otopi_fc_devices": map[string]any{"ovirt_host_storages": []any{lun("lun-b"), lun("lun-a")}},
			}, nil)
			exec.On(executor.TagCreateStorageDomain, created(map[string]any{"type": "fcp"}, "active"), nil)
		})

		DescribeTable("indexes LUNs in ascending id order",
			func(choice, wantID string) {
				cfg := &storage.Config{}
				_, err := run(map[string]string{
					provisioning.QueryDomainType: "fc",
					provisioning.QueryLUN:        choice,
				}, cfg)
				Expect(err).NotTo(HaveOccurred())

				Expect(exec.CallsFor(executor.TagCreateStorageDomain)[0].Vars).To(HaveKeyWithValue("he_lun_id", wantID))
				Expect(cfg.LunID).To(Equal(wantID))
				Expect(cfg.DomainType).To(Equal(storage.FC))
				Expect(notes()).To(ContainSubstring("[1]\tlun-a"))
			},
			Entry("index 1", "1", "lun-a"),
			Entry("index 2", "2", "lun-b"),
		)
	})

	Describe("iSCSI target discovery", func() {
		It("merges entries sharing target and portal group into one target", func() {
			exec.On(executor.TagISCSIDiscover, executor.Result{
				"otopi_iscsi_targets": map[string]any{"iscsi_targets_struct": []any{
					map[string]any{"target": "iqn.x", "portal": "10.0.0.1:3260,1", "address": "10.0.0.1", "port": float64(3260)},
					map[string]any{"target": "iqn.x", "portal": "10.0.0.1:3260,1", "address": "10.0.0.2", "port": float64(3260)},
				}},
			}, nil)
			exec.On(executor.TagISCSIGetDevices, executor.Result{
				"otopi_iscsi_devices": map[string]any{"ansible_facts": map[string]any{"ovirt_host_storages": []any{lun("36001")}}},
			}, nil)
			exec.On(executor.TagCreateStorageDomain, created(map[string]any{
				"type": "iscsi",
				"volume_group": map[string]any{"logical_units": []any{
					map[string]any{"id": "36001", "address": "10.0.0.1", "port": float64(3260), "portal": "10.0.0.1:3260,1", "target": "iqn.x"},
					map[string]any{"id": "36001", "address": "10.0.0.2", "port": float64(3260), "portal": "10.0.0.1:3260,1", "target": "iqn.x"},
				}},
			}, "active"), nil)

			cfg := &storage.Config{}
			_, err := run(map[string]string{
				provisioning.QueryDomainType:   "iscsi",
				provisioning.QueryISCSIAddress: "10.0.0.1",
			}, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(notes()).To(ContainSubstring("\t[1]\tiqn.x\n\t\tTPGT: 1, portals:\n\t\t\t10.0.0.1:3260\n\t\t\t10.0.0.2:3260\n"))
			Expect(notes()).NotTo(ContainSubstring("[2]\tiqn.x"))

			login := exec.CallsFor(executor.TagISCSIGetDevices)[0].Vars
			Expect(login).To(HaveKeyWithValue("he_iscsi_portal_addr", "10.0.0.1,10.0.0.2"))
			Expect(login).To(HaveKeyWithValue("he_iscsi_portal_port", "3260,3260"))

			create := exec.CallsFor(executor.TagCreateStorageDomain)[0].Vars
			Expect(create).To(HaveKeyWithValue("he_storage_domain_addr", "10.0.0.1"))

			Expect(cfg.ISCSITPGT).To(Equal("1"))
			Expect(cfg.Connection).To(Equal("10.0.0.1,10.0.0.2"))
			Expect(notes()).To(ContainSubstring("iSCSI connected paths: 2"))
			Expect(notes()).To(ContainSubstring("iSCSI discard after delete is disabled"))
		})

		It("fails even interactively when no target is found", func() {
			exec.On(executor.TagISCSIDiscover, executor.Result{}, nil)

			_, err := run(map[string]string{
				provisioning.QueryDomainType:   "iscsi",
				provisioning.QueryISCSIAddress: "10.0.0.1",
			}, &storage.Config{})
			Expect(err).To(MatchError(storage.ErrNoResourcesFound))
			Expect(exec.CallsFor(executor.TagISCSIDiscover)).To(HaveLen(1))
		})
	})

	Describe("NFS result canonicalization", func() {
		It("brackets an IPv6 address echoed by the engine", func() {
			exec.On(executor.TagCreateStorageDomain, created(map[string]any{
				"type": "nfs", "address": "2001:db8::1", "path": "/data", "nfs_version": "auto",
			}, "active"), nil)

			cfg := &storage.Config{}
			_, err := run(map[string]string{
				provisioning.QueryDomainType: "nfs",
				provisioning.QueryConnection: "[2001:db8::1]:/data",
			}, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Connection).To(Equal("[2001:db8::1]:/data"))
			Expect(cfg.DeviceSizeGiB).To(BeNumerically("~", 50.0, 0.001))
		})
	})

	Describe("a domain that is not active yet", func() {
		var glusterStorage = map[string]any{"type": "glusterfs", "address": "gl1", "path": "/engine"}

		It("restarts the loop when interactive", func() {
			exec.On(executor.TagCreateStorageDomain, created(glusterStorage, "activating"), nil)
			exec.On(executor.TagCreateStorageDomain, created(glusterStorage, "active"), nil)

			person := &operator{answers: map[string]string{provisioning.QueryConnection: "gl1:/engine"}}
			outcome, err := runWith(prompt.NewAnswers(map[string]string{
				provisioning.QueryDomainType: "glusterfs",
			}, person, log), &storage.Config{})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Attempts).To(Equal(2))
			Expect(person.notes).To(ContainElement("There was some problem with the storage domain, please try again"))
		})

		It("stops when every answer of the attempt was scripted", func() {
			exec.On(executor.TagCreateStorageDomain, created(glusterStorage, "activating"), nil)
			exec.On(executor.TagCreateStorageDomain, created(glusterStorage, "active"), nil)

			cfg := &storage.Config{}
			_, err := run(map[string]string{
				provisioning.QueryDomainType: "glusterfs",
				provisioning.QueryConnection: "gl1:/engine",
			}, cfg)
			Expect(err).To(MatchError(provisioning.ErrScriptedRetry))
			Expect(err).To(MatchError(storage.ErrNotActive))
			Expect(*cfg).To(Equal(storage.Config{}))
			Expect(exec.CallsFor(executor.TagCreateStorageDomain)).To(HaveLen(1))
			Expect(notes()).NotTo(ContainSubstring("please try again"))
		})

		It("fails without touching the configuration when unattended", func() {
			exec.On(executor.TagCreateStorageDomain, created(glusterStorage, "activating"), nil)

			cfg := &storage.Config{DomainType: storage.GlusterFS, Connection: "gl1:/engine"}
			before := *cfg

			_, err := run(nil, cfg)
			Expect(err).To(MatchError(storage.ErrNotActive))
			Expect(err.Error()).To(ContainSubstring("failed creating storage domain"))
			Expect(*cfg).To(Equal(before))
			Expect(exec.CallsFor(executor.TagCreateStorageDomain)).To(HaveLen(1))
		})
	})

	Describe("unattended runs", func() {
		It("stop at the first invalid preset without calling the engine", func() {
			_, err := run(nil, &storage.Config{DomainType: storage.NFS, Connection: "no-path-here"})
			Expect(err).To(MatchError(storage.ErrInvalidFormat))
			Expect(exec.Tags()).To(Equal([]executor.Tag{executor.TagInitialClean}))
		})
	})
})
