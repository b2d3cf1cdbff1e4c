package validation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/hpcgate/internal/config"
	"github.com/imamik/hpcgate/internal/logging"
	"github.com/imamik/hpcgate/internal/metadata"
	"github.com/imamik/hpcgate/internal/model"
	hpctest "github.com/imamik/hpcgate/internal/testing"
	"github.com/imamik/hpcgate/internal/util/ptr"
	"github.com/imamik/hpcgate/internal/validation"
	"github.com/imamik/hpcgate/internal/validators"
)

func TestValidationSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Engine Suite")
}

var _ = Describe("Engine", func() {
	var (
		ctx    context.Context
		fake   *hpctest.FakeCollaborator
		engine *validation.Engine
		log    logr.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = hpctest.NewStandardFake()

		var err error
		log, err = logging.NewWithWriter(logging.Config{Level: "debug", Format: "console"}, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())
		engine = validation.NewEngine(newCache(fake), validation.WithLogger(log))
	})

	buildCluster := func(b *hpctest.DocumentBuilder) *model.Cluster {
		c, err := model.Build(b.Build())
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Context("with a multi-queue cluster", func() {
		var cluster *model.Cluster

		BeforeEach(func() {
			cluster = buildCluster(hpctest.NewDocumentBuilder().
				WithQueue(config.QueueSpec{
					Name: "gpu",
					Networking: &config.QueueNetworkingSpec{
						SubnetIds:      []string{hpctest.ComputeSubnetA, hpctest.ComputeSubnetB},
						SecurityGroups: []string{hpctest.EfaSecurityGroup},
					},
					ComputeResources: []config.ComputeResourceSpec{
						{Name: "p4d", InstanceType: ptr.String("p4d.24xlarge"), Efa: &config.EfaSpec{Enabled: ptr.Bool(true)}},
						{Name: "c5n", InstanceType: ptr.String("c5n.18xlarge")},
					},
				}).
				WithEbs("home", "/home-shared"))
		})

		It("validates every node exactly once", func() {
			_, err := engine.Run(ctx, cluster)
			Expect(err).NotTo(HaveOccurred())

			for _, n := range model.Nodes(cluster) {
				Expect(n.State()).To(Equal(model.Validated), n.Path())
			}
		})

		It("queries each distinct resource once", func() {
			_, err := engine.Run(ctx, cluster)
			Expect(err).NotTo(HaveOccurred())

			Expect(fake.Calls(metadata.KindInstanceType)).To(BeEquivalentTo(3))
			Expect(fake.Calls(metadata.KindSubnetAZ)).To(BeEquivalentTo(3))
			Expect(fake.Calls(metadata.KindSecurityGroupRules)).To(BeEquivalentTo(1))
		})

		It("reports EFA on a multi-AZ queue", func() {
			results, err := engine.Run(ctx, cluster)
			Expect(err).NotTo(HaveOccurred())

			Expect(results).To(ContainElement(SatisfyAll(
				HaveField("Type", validators.TypeEfaMultiAz),
				HaveField("Severity", validators.Error),
				HaveField("Path", "Scheduling/Queues[gpu]"),
			)))
		})

		It("refuses to validate the same tree again", func() {
			_, err := engine.Run(ctx, cluster)
			Expect(err).NotTo(HaveOccurred())

			_, err = engine.Run(ctx, cluster)
			Expect(err).To(MatchError(model.ErrAlreadyValidated))
		})
	})

	Context("when a lookup keeps failing", func() {
		BeforeEach(func() {
			fake.SetError(metadata.KindSubnetAZ, hpctest.ComputeSubnetA, metadata.Transient(errors.New("request limit exceeded")))
		})

		It("aborts instead of reporting a finding", func() {
			results, err := engine.Run(ctx, buildCluster(hpctest.NewDocumentBuilder()))
			Expect(results).To(BeNil())

			var abort *validation.AbortError
			Expect(err).To(BeAssignableToTypeOf(abort))
			Expect(validation.IsAbort(err)).To(BeTrue())
		})
	})
})
